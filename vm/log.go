package vm

// Log is one LOG0..LOG4 record: zero to four indexed topics and a
// data payload copied out of memory at the time of the opcode, per
// spec.md 3. New relative to the teacher: aj3423-edb declared LOG's
// gas function (gas.go's makeGasLog) but opcode.go's makeLog body
// never captured topics/data, since the debugger only ever traced
// calls rather than recording their effect.
type Log struct {
	Topics []Word
	Data   []byte
}
