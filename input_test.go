package dhparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputViewSliceAndAt(t *testing.T) {
	v := NewInputView("hello, world")
	assert.Equal(t, "hello", v.Slice(0, 5))
	assert.Equal(t, "world", v.At(7))
	assert.Equal(t, 12, v.Len())
}

func TestInputViewReadRune(t *testing.T) {
	v := NewInputView("aéz")
	r, size := v.ReadRune(0)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 1, size)

	r, size = v.ReadRune(1)
	assert.Equal(t, 'é', r)
	assert.Equal(t, 2, size)

	_, size = v.ReadRune(v.Len())
	assert.Equal(t, 0, size)
}

func TestInputViewPositionLineColumn(t *testing.T) {
	v := NewInputView("one\ntwo\nthree")
	p := v.Position(0)
	assert.Equal(t, Position{Offset: 0, Line: 0, Column: 0}, p)

	p = v.Position(4) // start of "two"
	assert.Equal(t, Position{Offset: 4, Line: 1, Column: 0}, p)

	p = v.Position(9) // offset 9 is the 'h' of "three"
	require.Equal(t, byte('h'), v.Text()[9])
	assert.Equal(t, 2, p.Line)
}

func TestInputViewPositionHandlesCRLF(t *testing.T) {
	v := NewInputView("a\r\nb\rc")
	// "a\r\n" counts as one line break (the \r is swallowed because it's
	// immediately followed by \n), but the lone "\r" before "c" is its own.
	assert.Equal(t, 1, v.Position(3).Line) // 'b'
	assert.Equal(t, 2, v.Position(5).Line) // 'c'
}

func TestInputViewMirrorOffsetAndReverse(t *testing.T) {
	v := NewInputView("abcdef")
	assert.Equal(t, "fedcba", reverseString(v.Text()))
	assert.Equal(t, 6, v.mirrorOffset(0))
	assert.Equal(t, 0, v.mirrorOffset(6))
}

func TestPositionString(t *testing.T) {
	p := Position{Offset: 9, Line: 2, Column: 4}
	assert.Equal(t, "3:5+9", p.String())
}
