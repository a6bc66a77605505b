package acs

import (
	"iter"
)

// Source yields samples in stream order. Next returns ErrEof (possibly wrapped) once the
// stream is exhausted.
type Source interface {
	Next() (float64, error)
}

type sliceSource struct {
	data []float64
	idx  int
}

func FromSlice(data []float64) Source {
	return &sliceSource{data: data}
}

func (s *sliceSource) Next() (float64, error) {
	if s.idx >= len(s.data) {
		return 0, ErrEof
	}
	x := s.data[s.idx]
	s.idx++
	return x, nil
}

// SeqSource pulls samples from an iterator. Stop releases the iterator when the stream is
// abandoned before exhaustion.
type SeqSource struct {
	next func() (float64, bool)
	stop func()
}

func FromSeq(seq iter.Seq[float64]) *SeqSource {
	next, stop := iter.Pull(seq)
	return &SeqSource{next: next, stop: stop}
}

func (s *SeqSource) Next() (float64, error) {
	x, ok := s.next()
	if !ok {
		return 0, ErrEof
	}
	return x, nil
}

func (s *SeqSource) Stop() {
	s.stop()
}
