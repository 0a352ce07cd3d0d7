// SPDX-License-Identifier: MIT

package intent

import (
	"fmt"

	"github.com/hazelbot/hazel/internal/textutil"
)

// weightedThreshold is the minimum score a pattern must reach before a
// weighted match counts.
const weightedThreshold = 0.3

// WeightedOverlap scores each pattern by the fraction of its words found
// in the message, multiplied by the intent's priority. The highest score
// above the threshold wins.
type WeightedOverlap struct{}

func (WeightedOverlap) Name() string { return "weighted" }

func (WeightedOverlap) Match(message string, intents []Intent) (Match, bool) {
	msgWords := wordSet(message)
	if len(msgWords) == 0 {
		return Match{}, false
	}

	var best Match
	for _, in := range intents {
		mult := in.Priority.Multiplier()
		for _, pat := range in.Patterns {
			patWords := textutil.Words(pat)
			if len(patWords) == 0 {
				continue
			}
			hits := 0
			for _, w := range patWords {
				if msgWords[w] {
					hits++
				}
			}
			score := float64(hits) / float64(len(patWords)) * mult
			if score > best.Score {
				best = Match{Intent: in, Pattern: pat, Score: score}
			}
		}
	}
	if best.Score <= weightedThreshold {
		return Match{}, false
	}
	return best, true
}

func wordSet(s string) map[string]bool {
	words := textutil.Words(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// ForName returns the strategy registered under the given config name.
func ForName(name string) (Strategy, error) {
	switch name {
	case "substring", "":
		return SubstringLongest{}, nil
	case "weighted":
		return WeightedOverlap{}, nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q", name)
	}
}
