package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackPushOverflow(t *testing.T) {
	s := newStack()
	for i := 0; i < stackCapacity; i++ {
		assert.NoError(t, s.Push(wordFromUint64(uint64(i))))
	}
	err := s.Push(wordFromUint64(0))
	assert.ErrorIs(t, err, ErrStackOverflow)
}

func TestStackSwap(t *testing.T) {
	s := newStack()
	_ = s.Push(wordFromUint64(1))
	_ = s.Push(wordFromUint64(2))
	assert.NoError(t, s.Swap(1))
	top, _ := s.Peek(0)
	bottom, _ := s.Peek(1)
	assert.Equal(t, uint64(1), top.Uint64())
	assert.Equal(t, uint64(2), bottom.Uint64())
}

func TestStackPopUnderflow(t *testing.T) {
	s := newStack()
	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrStackUnderflow)
}
