package service

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentService filters and renders post text for public output.
type ContentService struct {
	stems    []string
	markdown goldmark.Markdown
}

// NewContentService builds a filter masking words that contain any of censoredWords.
func NewContentService(censoredWords []string) *ContentService {
	stems := make([]string, 0, len(censoredWords))
	for _, word := range censoredWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			stems = append(stems, word)
		}
	}
	return &ContentService{
		stems: stems,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Censor splits text on whitespace, replaces every word containing a
// censored stem with one '*' per rune and joins the words with single spaces.
func (s *ContentService) Censor(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if s.isCensored(word) {
			words[i] = strings.Repeat("*", utf8.RuneCountInString(word))
		}
	}
	return strings.Join(words, " ")
}

// censorLines masks words in place so markdown spacing survives. The
// mask is escaped so a masked word never turns into emphasis or a rule.
func (s *ContentService) censorLines(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := text[start:end]
		if s.isCensored(word) {
			b.WriteString(strings.Repeat(`\*`, utf8.RuneCountInString(word)))
		} else {
			b.WriteString(word)
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return b.String()
}

func (s *ContentService) isCensored(word string) bool {
	lower := strings.ToLower(word)
	for _, stem := range s.stems {
		if strings.Contains(lower, stem) {
			return true
		}
	}
	return false
}

// RenderHTML censors content and renders it as markdown. Raw HTML in the source is dropped.
func (s *ContentService) RenderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(s.censorLines(content)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the first n runes of text.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
