package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/aj3423/goevm/util"
	"github.com/aj3423/goevm/vm"
)

// goevmrun is the non-interactive driver kept from the teacher's
// main/main.go: decode hex program + calldata, run to a halt, print
// the final stack/memory/logs. The teacher's go-prompt REPL
// (completer/executor, breakpoints, "low"/"hi" tracers, JSON
// save/load, archive-node tx import) is the interactive terminal
// debugger spec.md 1 names as an external, out-of-scope collaborator
// and is not reproduced here.
func main() {
	app := &cli.App{
		Name:  "goevmrun",
		Usage: "run a hex-encoded EVM bytecode program to completion",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "code", Aliases: []string{"c"}, Required: true, Usage: "hex-encoded program bytecode"},
			&cli.StringFlag{Name: "calldata", Aliases: []string{"d"}, Value: "", Usage: "hex-encoded calldata"},
			&cli.Uint64Flag{Name: "gas", Aliases: []string{"g"}, Value: 1_000_000, Usage: "starting gas"},
			&cli.StringFlag{Name: "value", Aliases: []string{"v"}, Value: "0", Usage: "call value, decimal or 0x-hex"},
			&cli.StringFlag{Name: "sender", Aliases: []string{"s"}, Value: "0x0000000000000000000000000000000000000000", Usage: "sender address"},
			&cli.BoolFlag{Name: "disasm", Usage: "print the first 8 disassembled instructions before running"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		color.Red(err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	program, err := util.HexDec(c.String("code"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("bad --code: %v", err), 1)
	}
	calldata, err := util.HexDec(c.String("calldata"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("bad --calldata: %v", err), 1)
	}
	value, err := parseWord(c.String("value"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("bad --value: %v", err), 1)
	}
	sender := common.HexToAddress(c.String("sender"))

	if c.Bool("disasm") {
		printDisasm(program, 0)
	}

	m := vm.New(sender, program, c.Uint64("gas"), value, calldata)
	runErr := m.Run()

	printResult(m, runErr)
	if runErr != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func parseWord(s string) (*vm.Word, error) {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		b, err := util.HexDec(s)
		if err != nil {
			return nil, err
		}
		return new(vm.Word).SetBytes(b), nil
	}
	w := new(vm.Word)
	if err := w.SetFromDecimal(s); err != nil {
		return nil, err
	}
	return w, nil
}

func printDisasm(program []byte, around uint64) {
	color.Cyan("---- disassembly ----")
	lines := vm.Disassemble(program)
	beg := util.Max(int(around)-4, 0)
	end := util.Min(int(around)+8, len(lines))
	for i := beg; i < end; i++ {
		fmt.Println(lines[i].String())
	}
}

func printResult(m *vm.Machine, runErr error) {
	color.HiBlue("---- result ----")
	fmt.Printf("pc:       %d\n", m.PC())
	fmt.Printf("gas left: %d\n", m.Gas())
	fmt.Printf("refund:   %d\n", m.Refund())

	if runErr != nil {
		color.Red("error: %v", runErr)
	} else if m.Reverted() {
		color.Yellow("reverted")
	} else {
		color.Green("stopped")
	}

	color.HiBlue("stack:")
	for i, w := range m.Stack() {
		fmt.Printf("  [%d] 0x%x\n", i, w.Bytes())
	}

	if len(m.Memory()) > 0 {
		color.HiBlue("memory:")
		fmt.Printf("  0x%x\n", m.Memory())
	}

	storage := m.Storage()
	if len(storage) > 0 {
		color.HiBlue("storage:")
		for k, v := range storage {
			fmt.Printf("  0x%x => 0x%x\n", k.Bytes(), v.Bytes())
		}
	}

	if len(m.ReturnData()) > 0 {
		color.HiBlue("return data:")
		fmt.Printf("  0x%x\n", m.ReturnData())
	}

	logs := m.Logs()
	if len(logs) > 0 {
		color.HiBlue("logs:")
		for i, l := range logs {
			fmt.Printf("  [%d] topics=%d data=0x%x\n", i, len(l.Topics), l.Data)
		}
	}
}
