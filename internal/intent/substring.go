// SPDX-License-Identifier: MIT

package intent

import "github.com/hazelbot/hazel/internal/textutil"

// SubstringLongest matches by substring containment: every pattern
// contained in the folded message is a candidate, and the longest
// contained pattern wins. Longer patterns are more specific, so
// "what time do you close today" beats "what time" for a message
// containing both.
type SubstringLongest struct{}

func (SubstringLongest) Name() string { return "substring" }

func (SubstringLongest) Match(message string, intents []Intent) (Match, bool) {
	folded := textutil.Fold(message)
	if folded == "" {
		return Match{}, false
	}

	var best Match
	found := false
	for _, in := range intents {
		for _, pat := range in.Patterns {
			fp := textutil.Fold(pat)
			if fp == "" || !textutil.Contains(folded, fp) {
				continue
			}
			if !found || len(fp) > len(textutil.Fold(best.Pattern)) {
				best = Match{Intent: in, Pattern: pat, Score: 1}
				found = true
			}
		}
	}
	return best, found
}
