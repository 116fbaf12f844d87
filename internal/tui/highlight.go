package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
)

// Polarity tells whether a keyword suggests a job lead or not.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// Span is a keyword match in byte offsets of the original text.
type Span struct {
	Start    int
	End      int
	Keyword  string
	Polarity Polarity
}

// Highlighter finds keywords case-insensitively using Unicode case folding.
type Highlighter struct {
	positive []string
	negative []string
}

// NewHighlighter folds and stores the keyword lists. Blank keywords are
// dropped.
func NewHighlighter(positive, negative []string) *Highlighter {
	return &Highlighter{positive: foldAll(positive), negative: foldAll(negative)}
}

func foldAll(words []string) []string {
	caser := cases.Fold()
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, caser.String(w))
		}
	}
	return out
}

// foldedText is text folded rune by rune, remembering where every folded
// byte came from so matches can be mapped back.
type foldedText struct {
	folded string
	start  []int // original start offset per folded byte
	end    []int // original end offset per folded byte
}

func foldText(text string) foldedText {
	caser := cases.Fold()
	var b strings.Builder
	var ft foldedText
	for i, r := range text {
		end := i + len(string(r))
		f := caser.String(string(r))
		b.WriteString(f)
		for j := 0; j < len(f); j++ {
			ft.start = append(ft.start, i)
			ft.end = append(ft.end, end)
		}
	}
	ft.folded = b.String()
	return ft
}

// Spans returns non-overlapping matches ordered by position. When matches
// overlap, the earlier one wins, then the longer one, then the negative one.
func (h *Highlighter) Spans(text string) []Span {
	if h == nil || text == "" {
		return nil
	}
	ft := foldText(text)

	var all []Span
	find := func(words []string, p Polarity) {
		for _, w := range words {
			from := 0
			for {
				idx := strings.Index(ft.folded[from:], w)
				if idx < 0 {
					break
				}
				pos := from + idx
				all = append(all, Span{
					Start:    ft.start[pos],
					End:      ft.end[pos+len(w)-1],
					Keyword:  w,
					Polarity: p,
				})
				from = pos + len(w)
			}
		}
	}
	find(h.positive, Positive)
	find(h.negative, Negative)

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.Polarity > b.Polarity
	})

	var spans []Span
	last := -1
	for _, s := range all {
		if s.Start < last {
			continue
		}
		spans = append(spans, s)
		last = s.End
	}
	return spans
}

// Render styles every match in text.
func (h *Highlighter) Render(text string, positive, negative lipgloss.Style) string {
	spans := h.Spans(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.Start])
		style := positive
		if s.Polarity == Negative {
			style = negative
		}
		b.WriteString(style.Render(text[s.Start:s.End]))
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
