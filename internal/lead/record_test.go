package lead

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnmarshalKeepsExtraFields(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"text":"Hiring video editor","label":1,"platform":"reddit","score":3}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, "Hiring video editor", rec.Text)
	require.NotNil(t, rec.Label)
	assert.Equal(t, 1, *rec.Label)
	assert.Equal(t, json.RawMessage(`"reddit"`), rec.Extra["platform"])
	assert.Equal(t, json.RawMessage(`3`), rec.Extra["score"])
	assert.NotContains(t, rec.Extra, "text")
	assert.NotContains(t, rec.Extra, "label")
}

func TestRecord_UnmarshalLabelVariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *int
		wantErr bool
	}{
		{name: "absent", input: `{"text":"a"}`},
		{name: "null", input: `{"text":"a","label":null}`},
		{name: "int", input: `{"text":"a","label":0}`, want: intPtr(0)},
		{name: "integral float", input: `{"text":"a","label":1.0}`, want: intPtr(1)},
		{name: "fraction", input: `{"text":"a","label":0.5}`, wantErr: true},
		{name: "bool", input: `{"text":"a","label":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Record
			err := json.Unmarshal([]byte(tt.input), &rec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Label)
		})
	}
}

func TestRecord_UnmarshalRejectsMissingText(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"label":1}`), &rec)
	assert.ErrorIs(t, err, ErrMissingText)

	err = json.Unmarshal([]byte(`{"text":42}`), &rec)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`null`), &rec)
	assert.Error(t, err)
}

func TestRecord_MarshalSortsKeysWithoutHTMLEscaping(t *testing.T) {
	rec := Record{
		Text:  "Editor needed <urgent> & paid",
		Extra: map[string]json.RawMessage{"platform": json.RawMessage(`"reddit"`)},
	}.WithLabel(LabelAccept)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"label":1,"platform":"reddit","text":"Editor needed <urgent> & paid"}`, string(data))
}

func TestRecord_MarshalOmitsAbsentLabel(t *testing.T) {
	data, err := json.Marshal(Record{Text: "plain"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"plain"}`, string(data))
}

func TestRecord_WithLabelDoesNotAlias(t *testing.T) {
	orig := Record{Text: "a"}.WithLabel(LabelAccept)
	relabeled := orig.WithLabel(LabelReject)

	assert.Equal(t, 1, *orig.Label)
	assert.Equal(t, 0, *relabeled.Label)
}

func intPtr(i int) *int { return &i }
