// Package command parses chat commands into dice-pool requests.
//
// Parsing is the boundary where malformed user input is rejected: the engine
// only ever sees a validated request. The one "invalid" numeric input, a
// pool of zero or less, is deliberately allowed through as chance-die mode.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mirrenhall/chronicler/internal/dice"
)

// chanceKeyword selects chance-die mode in place of a pool expression.
const chanceKeyword = "chance"

// ErrEmpty indicates a command was missing its arguments.
var ErrEmpty = errors.New("command has no arguments")

// ErrUnknownCommand indicates the command word is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// ErrBadPool indicates the pool expression could not be evaluated.
var ErrBadPool = errors.New("pool must be a number, arithmetic, or 'chance'")

// ErrUnknownToken indicates an unrecognized modifier token.
var ErrUnknownToken = errors.New("unknown roll modifier")

var againPattern = regexp.MustCompile(`^(?:no)?(?:8|9|10)again$`)

// Kind identifies a parsed command.
type Kind int

const (
	KindRoll Kind = iota
	KindMerit
	KindHelp
)

// Command is a parsed chat command.
type Command struct {
	Kind  Kind
	Roll  dice.Request
	Merit string
}

// Parse parses the full content of a bot command, including the leading
// prefix character.
func Parse(content string) (Command, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}

	name := strings.ToLower(strings.TrimPrefix(fields[0], "!"))
	args := fields[1:]

	switch name {
	case "help":
		return Command{Kind: KindHelp}, nil
	case "merit":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("merit: %w", ErrEmpty)
		}
		return Command{Kind: KindMerit, Merit: strings.Join(args, " ")}, nil
	case "roll":
		request, err := ParseRoll(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindRoll, Roll: request}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

// ParseRoll parses roll arguments: a pool (an integer, an arithmetic
// expression such as "3+2-1", or "chance") plus optional modifier tokens.
//
// Recognized modifiers are "rote", "9again", "8again", "10again" (the
// default explosion threshold, accepted as a no-op) and "no10again". Any
// other non-numeric token is rejected with ErrUnknownToken.
func ParseRoll(args []string) (dice.Request, error) {
	if len(args) == 0 {
		return dice.Request{}, fmt.Errorf("roll: %w", ErrEmpty)
	}

	var request dice.Request
	var pool []string
	for _, arg := range args {
		token := strings.ToLower(arg)
		switch {
		case token == "rote":
			request.Rote = true
		case token == "9again":
			request.NineAgain = true
		case token == "8again":
			request.EightAgain = true
		case token == "10again":
			// Default threshold; accepted for symmetry with the others.
		case token == "no10again":
			request.NoExplode = true
		case againPattern.MatchString(token):
			return dice.Request{}, fmt.Errorf("%w: %s", ErrUnknownToken, arg)
		default:
			pool = append(pool, token)
		}
	}

	if len(pool) == 0 {
		return dice.Request{}, fmt.Errorf("roll: %w", ErrBadPool)
	}
	if len(pool) == 1 && pool[0] == chanceKeyword {
		request.Pool = 0
		return request, nil
	}

	size, err := evalPool(strings.Join(pool, " "))
	if err != nil {
		return dice.Request{}, err
	}
	request.Pool = size
	return request, nil
}

// evalPool evaluates an additive pool expression such as "3 + 2 - 1".
// Signs may abut their operands; a negative total is valid (chance die).
func evalPool(expr string) (int, error) {
	spaced := strings.NewReplacer("+", " + ", "-", " - ").Replace(expr)

	total := 0
	sign := 1
	terms := 0
	for _, token := range strings.Fields(spaced) {
		switch token {
		case "+":
			sign = 1
		case "-":
			sign = -1
		default:
			n, err := strconv.Atoi(token)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrBadPool, token)
			}
			total += sign * n
			sign = 1
			terms++
		}
	}
	if terms == 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPool, expr)
	}
	return total, nil
}
