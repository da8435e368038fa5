// Package dice implements the Chronicles of Darkness dice-pool rules.
package dice

import (
	"errors"
	"fmt"
)

const (
	// sides is the number of faces on every pool die.
	sides = 10
	// successThreshold is the lowest face counted as a success in a
	// standard pool.
	successThreshold = 8
	// chanceSuccess is the only face counted as a success on a chance die.
	chanceSuccess = 10
	// maxDice bounds the explosion cascade. The loop terminates with
	// probability 1 on any uniform source; the cap only trips on a
	// misbehaving one and is surfaced as ErrRunaway, never as truncation.
	maxDice = 10000
)

// ErrRunaway indicates the explosion cascade exceeded the safety limit.
var ErrRunaway = errors.New("dice cascade exceeded safety limit")

// Source produces independent uniform die faces in [1, sides].
//
// A Source failure (for example an exhausted scripted sequence) is fatal to
// the resolution: Resolve propagates it without retrying or substituting a
// fallback source.
type Source interface {
	Roll(sides int) (int, error)
}

// Origin records how a die entered the pool.
type Origin int

const (
	// OriginInitial marks a die from the initial pool draw.
	OriginInitial Origin = iota
	// OriginRote marks a re-roll granted by the rote quality.
	OriginRote
	// OriginExplosion marks a die spawned by an exploding die.
	OriginExplosion
)

func (o Origin) String() string {
	switch o {
	case OriginInitial:
		return "initial"
	case OriginRote:
		return "rote"
	case OriginExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Request describes a single dice-pool resolution.
//
// A Pool of zero or less selects chance-die mode, where the modifier flags
// are ignored. NineAgain and EightAgain lower the explosion threshold; when
// both are set the more permissive threshold (8) governs. NoExplode disables
// explosion entirely and takes precedence over both again flags.
type Request struct {
	Pool       int
	Rote       bool
	NineAgain  bool
	EightAgain bool
	NoExplode  bool
}

// explodeThreshold reports the face at which dice explode, or false when
// explosion is disabled.
func (r Request) explodeThreshold() (int, bool) {
	if r.NoExplode {
		return 0, false
	}
	switch {
	case r.EightAgain:
		return 8, true
	case r.NineAgain:
		return 9, true
	default:
		return 10, true
	}
}

// Die is a single rolled face tagged with its provenance.
type Die struct {
	Face   int
	Origin Origin
}

// Result captures one resolved dice pool.
type Result struct {
	// Dice holds every die in generation order: the initial pool, then
	// rote re-rolls, then explosion dice in the order they were spawned.
	Dice []Die
	// Successes counts dice meeting the success threshold for the
	// pool's mode.
	Successes int
	// IsChanceDie reports whether the request degenerated to a chance die.
	IsChanceDie bool
	// IsBotch is true only for a chance die that shows a 1.
	IsBotch bool
	// ExplodedCount counts dice with OriginExplosion.
	ExplodedCount int
}

// Resolve rolls one dice pool.
//
// # Determinism
//
// Resolve is a pure function of the request and the faces produced by the
// source. Two calls with the same request and the same recorded face
// sequence produce identical results.
//
// # Ordering
//
// Initial dice appear first, in pool order. With the rote quality, one
// re-roll die is appended per initially failing die, in the order of the
// failing dice's positions; the failing die itself stays in the sequence.
// The explosion pass then scans the sequence in generation order and appends
// one die per qualifying face, so explosion dice appear last and newly
// spawned dice are themselves checked in the order they were generated.
//
// # Chance dice
//
// A Pool of zero or less draws exactly one die: a 10 is the only success and
// a 1 is a botch. Rote and the again flags are ignored in this mode. A
// standard pool is never a botch regardless of the faces shown.
//
// # Errors
//
//   - A source fault is propagated unchanged; Resolve never retries.
//   - ErrRunaway is returned if the explosion cascade exceeds the
//     defensive cap.
func Resolve(request Request, src Source) (Result, error) {
	if request.Pool <= 0 {
		return resolveChance(src)
	}

	rolled := make([]Die, 0, request.Pool)
	for i := 0; i < request.Pool; i++ {
		face, err := src.Roll(sides)
		if err != nil {
			return Result{}, fmt.Errorf("draw initial die: %w", err)
		}
		rolled = append(rolled, Die{Face: face, Origin: OriginInitial})
	}

	if request.Rote {
		// Rote grants one re-roll per initial failure. The re-rolls are
		// appended rather than replacing the failing dice, which count
		// (as non-successes) per their own faces.
		for i := 0; i < request.Pool; i++ {
			if rolled[i].Face >= successThreshold {
				continue
			}
			face, err := src.Roll(sides)
			if err != nil {
				return Result{}, fmt.Errorf("draw rote re-roll: %w", err)
			}
			rolled = append(rolled, Die{Face: face, Origin: OriginRote})
		}
	}

	exploded := 0
	if threshold, ok := request.explodeThreshold(); ok {
		for i := 0; i < len(rolled); i++ {
			if rolled[i].Face < threshold {
				continue
			}
			if len(rolled) >= maxDice {
				return Result{}, ErrRunaway
			}
			face, err := src.Roll(sides)
			if err != nil {
				return Result{}, fmt.Errorf("draw explosion die: %w", err)
			}
			rolled = append(rolled, Die{Face: face, Origin: OriginExplosion})
			exploded++
		}
	}

	successes := 0
	for _, die := range rolled {
		if die.Face >= successThreshold {
			successes++
		}
	}

	return Result{
		Dice:          rolled,
		Successes:     successes,
		ExplodedCount: exploded,
	}, nil
}

// resolveChance draws the single die of a chance pool.
func resolveChance(src Source) (Result, error) {
	face, err := src.Roll(sides)
	if err != nil {
		return Result{}, fmt.Errorf("draw chance die: %w", err)
	}

	result := Result{
		Dice:        []Die{{Face: face, Origin: OriginInitial}},
		IsChanceDie: true,
	}
	if face == chanceSuccess {
		result.Successes = 1
	}
	if face == 1 && result.Successes == 0 {
		result.IsBotch = true
	}
	return result, nil
}
