package lead

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/text/unicode/norm"
)

// RawLead is one entry of a scraped leads export.
type RawLead struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// PlatformCount is one row of the platform distribution.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// PrepareResult is the outcome of Prepare.
type PrepareResult struct {
	Records []Record `json:"-"`
	// Skipped holds 0-based positions of raw leads with no usable text.
	Skipped   []int           `json:"skipped"`
	Platforms []PlatformCount `json:"platforms"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	htmlTag       = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
)

// Preparer converts raw scraped leads into review records.
type Preparer struct {
	converter *md.Converter
}

// NewPreparer creates a Preparer with an HTML-to-text converter for bodies
// scraped as markup.
func NewPreparer() *Preparer {
	return &Preparer{converter: md.NewConverter("", true, nil)}
}

// ReadRaw reads a JSON array of raw leads.
func ReadRaw(path string) ([]RawLead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raw leads: %w", err)
	}
	var raws []RawLead
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse raw leads %s: %w", path, err)
	}
	return raws, nil
}

// Prepare builds one labeled record per usable raw lead, in input order.
//
// Reddit posts use "title content" (or just the title when content is blank);
// every other platform uses content, falling back to title. Text is prefixed
// with the upper-cased platform tag, whitespace is collapsed and the result is
// NFC normalized. Leads that end up with nothing beyond the tag are skipped.
func (p *Preparer) Prepare(raws []RawLead) PrepareResult {
	result := PrepareResult{Records: []Record{}, Skipped: []int{}}
	counts := map[string]int{}

	for i, raw := range raws {
		platform := strings.ToUpper(strings.TrimSpace(raw.Platform))
		if platform == "" {
			platform = "UNKNOWN"
		}
		content := p.plainText(raw.Content)
		title := p.plainText(raw.Title)

		var body string
		if platform == "REDDIT" {
			body = title
			if strings.TrimSpace(content) != "" {
				body = title + " " + content
			}
		} else {
			body = content
			if body == "" {
				body = title
			}
		}

		text := fmt.Sprintf("[%s] %s", platform, body)
		text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
		text = norm.NFC.String(text)

		if utf8.RuneCountInString(text) <= utf8.RuneCountInString(platform)+3 {
			result.Skipped = append(result.Skipped, i)
			continue
		}

		result.Records = append(result.Records, Record{Text: text}.WithLabel(LabelAccept))
		counts[platform]++
	}

	for platform, n := range counts {
		result.Platforms = append(result.Platforms, PlatformCount{Platform: platform, Count: n})
	}
	sort.Slice(result.Platforms, func(i, j int) bool {
		if result.Platforms[i].Count != result.Platforms[j].Count {
			return result.Platforms[i].Count > result.Platforms[j].Count
		}
		return result.Platforms[i].Platform < result.Platforms[j].Platform
	})
	return result
}

// plainText strips markup from s when it looks like HTML.
func (p *Preparer) plainText(s string) string {
	if !htmlTag.MatchString(s) {
		return s
	}
	converted, err := p.converter.ConvertString(s)
	if err != nil {
		return s
	}
	return converted
}
