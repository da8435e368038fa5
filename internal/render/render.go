// Package render formats roll results into chat replies.
package render

import (
	"fmt"
	"strings"

	"github.com/mirrenhall/chronicler/internal/dice"
)

// helpText is the reply to the help command.
const helpText = `Chronicles of Darkness dice roller bot

To use, type '!roll # <mod>', where # is a positive number, arithmetic like
'3+2-1', or 'chance', and <mod> is any of:

* rote - to re-roll each die that misses on the first pass
* 9again - to re-roll 10s and 9s
* 8again - to re-roll 10s, 9s, and 8s
* no10again - to not re-roll any values

The '<mod>' portion is optional.

Examples:

* !roll 4
* !roll chance
* !roll 10 9again
* !roll 5 rote 8again

Merit reference cards: !merit <name>`

// Help returns the help reply.
func Help() string {
	return "```\n" + helpText + "\n```"
}

// Roll formats a resolved pool as a reply to the named author.
//
// Standard pools list every die in generation order, with dice added by
// rote or explosion shown in parentheses. Chance dice get their own
// phrasing, with a distinguished botch callout.
func Roll(author string, result dice.Result) string {
	if result.IsChanceDie {
		return chance(author, result)
	}

	pool := 0
	faces := make([]string, 0, len(result.Dice))
	for _, die := range result.Dice {
		if die.Origin == dice.OriginInitial {
			pool++
			faces = append(faces, fmt.Sprintf("%d", die.Face))
		} else {
			faces = append(faces, fmt.Sprintf("(%d)", die.Face))
		}
	}

	return fmt.Sprintf("%s rolled %d dice and got %s: %s",
		author, pool, successPhrase(result.Successes), strings.Join(faces, ", "))
}

func chance(author string, result dice.Result) string {
	switch {
	case result.IsBotch:
		return fmt.Sprintf("%s rolled a chance die and botched!", author)
	case result.Successes > 0:
		return fmt.Sprintf("%s rolled a chance die and succeeded!", author)
	default:
		return fmt.Sprintf("%s rolled a chance die and failed: %d",
			author, result.Dice[0].Face)
	}
}

func successPhrase(count int) string {
	if count == 1 {
		return "1 success"
	}
	return fmt.Sprintf("%d successes", count)
}
