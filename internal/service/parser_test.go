package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser_Tokens(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and drops stop words", "The Bill IS good", []string{"bill", "good"}},
		{"strips punctuation inside words", "don't re-open it!", []string{"dont", "reopen"}},
		{"drops short words", "an ox is by me", nil},
		{"keeps underscores and digits", "clause_12 section 404", []string{"clause_12", "section", "404"}},
		{"collapses whitespace", "  tax\t\nreform  ", []string{"tax", "reform"}},
		{"splits on no-break space", "citizens\u00a0welfare matters", []string{"citizens", "welfare", "matters"}},
		{"splits on unicode separators", "rural\u2003roads\u3000public\u2028transit\ufeffsafety\vfunds", []string{"rural", "roads", "public", "transit", "safety", "funds"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Tokens(tt.text))
		})
	}
}

func TestParser_IsStopWord(t *testing.T) {
	p := NewParser()

	assert.True(t, p.IsStopWord("The"))
	assert.True(t, p.IsStopWord("their"))
	assert.False(t, p.IsStopWord("legislation"))
}
