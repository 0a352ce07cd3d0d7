// SPDX-License-Identifier: MIT

package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Latte", "latte"},
		{"Crème Brûlée", "creme brulee"},
		{"  ICED COFFEE ", "  iced coffee "},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"what", "time", "do", "you", "close"}, Words("What  time do you CLOSE"))
	assert.Empty(t, Words("   "))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("I'd like a Crème Brûlée please", "creme brulee"))
	assert.True(t, Contains("show me the MENU", "menu"))
	assert.False(t, Contains("hello", "latte"))
}
