package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanModelResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"not an object", `["a"]`, ""},
		{"prose", "Here you go: {\"a\":1}", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanModelResponse(tc.in))
		})
	}
}

func TestSnippetKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", snippetLen-1) + "é" + "tail"
	got := snippet(s)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", snippetLen-1)+"...", got)
	assert.Equal(t, "short", snippet("short"))
}
