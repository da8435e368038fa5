// Package random provides seed generation and dice randomness sources.
//
// Production rolls use a math/rand generator seeded from crypto/rand, one
// source per resolution, so the seed can be logged and the roll replayed.
// Tests use Script to drive the engine with a fixed face sequence.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/mirrenhall/chronicler/internal/dice"
)

// ErrExhausted indicates a scripted source ran out of faces.
var ErrExhausted = errors.New("scripted source exhausted")

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

type seededSource struct {
	rng *rand.Rand
}

// Seeded returns a pseudo-random dice source. Two sources built from the
// same seed produce the same face sequence.
func Seeded(seed int64) dice.Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Roll(sides int) (int, error) {
	return s.rng.Intn(sides) + 1, nil
}

type scriptSource struct {
	faces []int
	next  int
}

// Script returns a source that replays the given faces in order and fails
// with ErrExhausted once they run out.
func Script(faces ...int) dice.Source {
	return &scriptSource{faces: faces}
}

func (s *scriptSource) Roll(sides int) (int, error) {
	if s.next >= len(s.faces) {
		return 0, ErrExhausted
	}
	face := s.faces[s.next]
	s.next++
	return face, nil
}
