package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageColdThenWarm(t *testing.T) {
	s := newStorage()
	key := wordFromUint64(0x42)

	wasWarm, _ := s.Load(key)
	assert.False(t, wasWarm, "first touch must be cold")

	wasWarm, _ = s.Load(key)
	assert.True(t, wasWarm, "second touch must be warm")
}

func TestStorageZeroValueDeletesEntry(t *testing.T) {
	s := newStorage()
	key := wordFromUint64(1)
	val := wordFromUint64(7)

	s.Store(key, val)
	assert.Len(t, s.Items(), 1)

	s.Store(key, newWord())
	assert.Len(t, s.Items(), 0)

	_, v := s.Peek(key)
	assert.True(t, v.IsZero())
}
