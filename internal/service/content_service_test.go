package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCensoredWords = []string{"редиска", "плохое", "запрещенное"}

func TestCensorMasksWholeWords(t *testing.T) {
	svc := NewContentService(testCensoredWords)

	assert.Equal(t, "Этот ******* опоздал", svc.Censor("Этот редиска опоздал"))
	assert.Equal(t, "******** ok", svc.Censor("Редиска, ok"), "case-insensitive and punctuation counts toward length")
	assert.Equal(t, "а ************ слово", svc.Censor("а Неплохое!!!! слово"), "substring of a longer word masks the whole word")
	assert.Equal(t, "a b c", svc.Censor("  a \n b\t c  "), "whitespace is collapsed to single spaces")
	assert.Equal(t, "", svc.Censor(""))
}

func TestCensorWithoutWordsIsIdentityOnWords(t *testing.T) {
	svc := NewContentService(nil)
	assert.Equal(t, "редиска plain", svc.Censor("редиска plain"))
}

func TestRenderHTMLKeepsStructure(t *testing.T) {
	svc := NewContentService(testCensoredWords)

	out, err := svc.RenderHTML("# Заголовок\n\n- плохое дело\n- хорошее дело\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1 id=")
	assert.Contains(t, out, "<li>****** дело</li>")
	assert.Contains(t, out, "<li>хорошее дело</li>")
	assert.NotContains(t, out, "<script>")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "При", Excerpt("Привет", 3))
	assert.Equal(t, "short", Excerpt("short", 200))
	assert.Equal(t, "", Excerpt("x", 0))
	long := strings.Repeat("я", 250)
	assert.Equal(t, 200, len([]rune(Excerpt(long, 200))))
}

func TestRenderHTMLMaskedLineIsNotARule(t *testing.T) {
	svc := NewContentService(testCensoredWords)

	out, err := svc.RenderHTML("редиска")
	require.NoError(t, err)
	assert.NotContains(t, out, "<hr")
	assert.Contains(t, out, "*******")
}

func TestCensorLinesKeepsSpacing(t *testing.T) {
	svc := NewContentService(testCensoredWords)

	in := "first  плохое  line  \n    code    редиска\n\tend"
	want := "first  " + strings.Repeat(`\*`, 6) + "  line  \n    code    " + strings.Repeat(`\*`, 7) + "\n\tend"
	assert.Equal(t, want, svc.censorLines(in))
	assert.Equal(t, "plain  text ", svc.censorLines("plain  text "))
}
