package ometa

import "github.com/emirpasic/gods/lists/arraylist"

// Source lazily yields tokens for a Stream. The simplest Source is a
// string of bytes (spec.md §1, "characters in the simplest case, but
// abstractly any iterable").
type Source interface {
	// Next returns the next token and true, or (nil, false) at the end
	// of input.
	Next() (Value, bool)
}

type byteSource struct {
	s   string
	pos int
}

func (b *byteSource) Next() (Value, bool) {
	if b.pos >= len(b.s) {
		return nil, false
	}
	c := b.s[b.pos]
	b.pos++
	return c, true
}

// NewByteStream builds a Stream over the bytes of s.
func NewByteStream(name, s string) *Stream {
	return NewStream(name, &byteSource{s: s})
}

// Stream is a cursor over an input sequence with push-back and nestable
// marks (spec.md §3 "Input Stream", §4.1). The push-back buffer and the
// stack of mark buffers are built on arraylist.List rather than raw
// slices: Rewind must remove the tail of every still-active lower-indexed
// mark buffer (spec.md invariant (d)), and arraylist's indexable Remove
// gives that without hand-rolled slice surgery — following the same gods
// list type the parser-generator pack's own table builder
// (npillmayer-gorgo's lr/tables.go) reaches for nested growable
// collections.
type Stream struct {
	name   string
	source Source

	pushBack *arraylist.List   // LIFO of unread tokens; Next pops the tail
	marks    []*arraylist.List // stack of mark buffers, index = mark id

	lastToken Value
	hasLast   bool
	consumed  int // total tokens ever produced, for diagnostics only
}

// NewStream builds a Stream reading tokens from src.
func NewStream(name string, src Source) *Stream {
	return &Stream{name: name, source: src, pushBack: arraylist.New()}
}

// Loc reports the stream's current position for diagnostics.
func (s *Stream) Loc() Loc {
	return Loc{Source: s.name, Offset: s.consumed}
}

// Next yields tokens in original order, consuming from push-back first
// (spec.md §4.1 invariant (a)). Every token produced while marks are
// active is appended to every active mark buffer (invariant (b)).
func (s *Stream) Next() (Value, bool) {
	var tok Value
	if !s.pushBack.Empty() {
		idx := s.pushBack.Size() - 1
		tok, _ = s.pushBack.Get(idx)
		s.pushBack.Remove(idx)
	} else {
		t, ok := s.source.Next()
		if !ok {
			return nil, false
		}
		tok = t
	}
	for _, mb := range s.marks {
		mb.Add(tok)
	}
	s.lastToken = tok
	s.hasLast = true
	s.consumed++
	return tok, true
}

// Prev pushes the last-produced token back onto the push-back buffer and
// pops it from every active mark buffer. It is only ever invoked by a
// primitive that has just called Next; calling it otherwise is a
// programmer error, so it panics rather than silently corrupting state.
func (s *Stream) Prev() {
	if !s.hasLast {
		panic("ometa: Prev called with no token consumed since the last mark/rewind boundary")
	}
	s.pushBack.Add(s.lastToken)
	for _, mb := range s.marks {
		mb.Remove(mb.Size() - 1)
	}
	s.hasLast = false
	s.consumed--
}

// Push enqueues a token so that the next Next returns it. Used by rule
// application with arguments (spec.md §4.2).
func (s *Stream) Push(tok Value) {
	s.pushBack.Add(tok)
}

// Mark allocates a new mark index one higher than the previous and
// starts a fresh mark buffer for it. Mark indices form a contiguous LIFO
// stack.
func (s *Stream) Mark() int {
	id := len(s.marks)
	s.marks = append(s.marks, arraylist.New())
	return id
}

// Unmark commits all tokens consumed since mark m: it discards the mark
// buffers with index >= m, leaving their tokens consumed.
func (s *Stream) Unmark(m int) {
	s.marks = s.marks[:m]
}

// Rewind reverses all consumption since mark m: the recorded tokens are
// prepended back into the push-back buffer, in reverse order, so that
// subsequent Nexts replay them in original order. Mark buffers with index
// >= m are discarded, and the same tokens are removed from the tail of
// any lower-indexed mark buffer still active (spec.md invariant (d),
// testable property 3).
func (s *Stream) Rewind(m int) {
	recorded := s.marks[m]
	n := recorded.Size()
	for i := n - 1; i >= 0; i-- {
		v, _ := recorded.Get(i)
		s.pushBack.Add(v)
	}
	s.marks = s.marks[:m]
	for _, mb := range s.marks {
		for i := 0; i < n; i++ {
			mb.Remove(mb.Size() - 1)
		}
	}
	s.consumed -= n
	s.hasLast = false
}
