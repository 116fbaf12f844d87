package lead

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_PlatformRules(t *testing.T) {
	raws := []RawLead{
		{Platform: "reddit", Title: "Need an editor", Content: "for my   channel"},
		{Platform: "reddit", Title: "Title only", Content: "   "},
		{Platform: "linkedin", Title: "ignored title", Content: "Hiring video editor"},
		{Platform: "twitter", Title: "Fallback title"},
		{Platform: "", Content: "no platform"},
	}

	result := NewPreparer().Prepare(raws)
	require.Len(t, result.Records, 5)

	want := []string{
		"[REDDIT] Need an editor for my channel",
		"[REDDIT] Title only",
		"[LINKEDIN] Hiring video editor",
		"[TWITTER] Fallback title",
		"[UNKNOWN] no platform",
	}
	for i, w := range want {
		assert.Equal(t, w, result.Records[i].Text)
		require.NotNil(t, result.Records[i].Label)
		assert.Equal(t, LabelAccept, *result.Records[i].Label)
	}
	assert.Empty(t, result.Skipped)
}

func TestPrepare_SkipsEmptyText(t *testing.T) {
	raws := []RawLead{
		{Platform: "x", Content: ""},
		{Platform: "x", Content: "ok"},
		{Platform: "reddit", Title: "", Content: ""},
	}

	result := NewPreparer().Prepare(raws)
	assert.Equal(t, []int{0, 2}, result.Skipped)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "[X] ok", result.Records[0].Text)
}

func TestPrepare_ConvertsHTML(t *testing.T) {
	raws := []RawLead{{Platform: "linkedin", Content: "<p>We are <b>hiring</b> a video editor</p>"}}

	result := NewPreparer().Prepare(raws)
	require.Len(t, result.Records, 1)
	text := result.Records[0].Text
	assert.Contains(t, text, "hiring")
	assert.Contains(t, text, "video editor")
	assert.NotContains(t, text, "<p>")
}

func TestPrepare_PlatformDistribution(t *testing.T) {
	raws := []RawLead{
		{Platform: "twitter", Content: "a"},
		{Platform: "reddit", Title: "b"},
		{Platform: "reddit", Title: "c"},
		{Platform: "linkedin", Content: "d"},
	}

	result := NewPreparer().Prepare(raws)
	assert.Equal(t, []PlatformCount{
		{Platform: "REDDIT", Count: 2},
		{Platform: "LINKEDIN", Count: 1},
		{Platform: "TWITTER", Count: 1},
	}, result.Platforms)
}

func TestPrepare_NormalizesNFC(t *testing.T) {
	raws := []RawLead{{Platform: "x", Content: "cafe\u0301"}}

	result := NewPreparer().Prepare(raws)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "[X] caf\u00e9", result.Records[0].Text)
}

func TestReadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	content := `[{"_id":"1","platform":"reddit","title":"t","content":"c"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	raws, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, []RawLead{{Platform: "reddit", Title: "t", Content: "c"}}, raws)

	_, err = ReadRaw(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
