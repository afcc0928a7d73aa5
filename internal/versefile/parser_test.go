package versefile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `# 요한복음 발췌
요한복음 15:5 | 나는 포도나무요 너희는 가지라 | 포도나무, 가지

시편 23:1 | 여호와는 나의 목자시니 내게 부족함이 없으리로다
`
	entries, lineErrs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	require.Len(t, entries, 2)

	assert.Equal(t, "요한복음 15:5", entries[0].Reference)
	assert.Equal(t, "나는 포도나무요 너희는 가지라", entries[0].Text)
	assert.Equal(t, []string{"포도나무", "가지"}, entries[0].Keywords)

	assert.Equal(t, "시편 23:1", entries[1].Reference)
	assert.Nil(t, entries[1].Keywords)
}

func TestParseMalformedLines(t *testing.T) {
	input := `요한복음 15:5 | 나는 포도나무요
no pipe here
 | missing reference
시편 23:1 |
`
	entries, lineErrs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	// Bad lines are reported but don't abort the good ones.
	require.Len(t, entries, 1)
	assert.Equal(t, "요한복음 15:5", entries[0].Reference)

	require.Len(t, lineErrs, 3)
	assert.Equal(t, 2, lineErrs[0].Line)
	assert.Contains(t, lineErrs[0].Msg, "reference | text")
	assert.Equal(t, 3, lineErrs[1].Line)
	assert.Contains(t, lineErrs[1].Msg, "empty reference")
	assert.Equal(t, 4, lineErrs[2].Line)
	assert.Contains(t, lineErrs[2].Msg, "empty passage text")
}

func TestParseKeywordTrimming(t *testing.T) {
	input := `요 1:1 | 태초에 말씀이 계시니라 | 태초 ,  말씀 , `
	entries, _, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"태초", "말씀"}, entries[0].Keywords)
}

func TestParseEmpty(t *testing.T) {
	entries, lineErrs, err := Parse(strings.NewReader("\n# only comments\n\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, lineErrs)
}

func TestLineErrorString(t *testing.T) {
	e := LineError{Line: 7, Msg: "empty reference"}
	assert.Equal(t, "line 7: empty reference", e.Error())
}
