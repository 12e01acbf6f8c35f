package ometa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamNextUntilEnd(t *testing.T) {
	s := NewByteStream("t", "ab")
	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), v)

	v, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), v)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestStreamPrevPushesBack(t *testing.T) {
	s := NewByteStream("t", "ab")
	v1, _ := s.Next()
	s.Prev()
	v2, _ := s.Next()
	assert.Equal(t, v1, v2)
}

func TestStreamMarkRewind(t *testing.T) {
	s := NewByteStream("t", "abc")
	m := s.Mark()
	s.Next()
	s.Next()
	s.Rewind(m)

	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), v, "rewind should replay consumed tokens from the start")
}

func TestStreamMarkUnmarkCommits(t *testing.T) {
	s := NewByteStream("t", "abc")
	m := s.Mark()
	s.Next()
	s.Unmark(m)

	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), v, "unmark should not undo consumption")
}

func TestStreamNestedMarkInvariant(t *testing.T) {
	// An inner mark's rewind must also remove the replayed tokens from the
	// still-active outer mark's recorded buffer, or the outer rewind would
	// later replay them twice.
	s := NewByteStream("t", "abcd")
	outer := s.Mark()
	s.Next() // a

	inner := s.Mark()
	s.Next() // b
	s.Next() // c
	s.Rewind(inner)

	s.Rewind(outer)

	var got []byte
	for i := 0; i < 4; i++ {
		v, ok := s.Next()
		require.True(t, ok)
		got = append(got, v.(byte))
	}
	assert.Equal(t, []byte("abcd"), got)
}

func TestStreamLoc(t *testing.T) {
	s := NewByteStream("f", "a\nb")
	s.Next()
	s.Next()
	loc := s.Loc()
	assert.Equal(t, "f", loc.Source)
}
