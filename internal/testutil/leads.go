package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLeads writes a leads.jsonl with one {"text": ..., "label": 1} line per
// text into dir and returns its path.
func WriteLeads(t testing.TB, dir string, texts ...string) string {
	t.Helper()
	var b strings.Builder
	for _, text := range texts {
		data, err := json.Marshal(map[string]any{"text": text, "label": 1})
		if err != nil {
			t.Fatalf("marshal lead: %v", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, "leads.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write leads: %v", err)
	}
	return path
}

// NumberedTexts returns n distinct lead texts: "lead 1", "lead 2", ...
func NumberedTexts(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("lead %d", i+1)
	}
	return texts
}
