package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"lead": "<b>hiring</b> & more"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Contains(t, buf.String(), "<b>hiring</b> & more", "HTML must not be escaped")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E_DRIFT", "session has drift", map[string][]int{"stale_indices": {12}})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DRIFT", resp.Error.Code)
	assert.Equal(t, "session has drift", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("✓ Lead 3 marked accepted"))
	assert.Equal(t, "✓ Lead 3 marked accepted\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			err := formatter.Error("E_DRIFT", "session has drift", []int{4})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "Error [E_DRIFT]: session has drift")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details: [4]")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   true,
	}

	formatter.VerboseLog("loaded %d leads", 10)

	assert.Empty(t, out.String())
	assert.Equal(t, "loaded 10 leads\n", errOut.String())
}

func TestOutputFormatter_VerboseLogDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	formatter.VerboseLog("loaded %d leads", 10)
	assert.Empty(t, buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"exit_error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "bad flag")), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestSessionExitError(t *testing.T) {
	missing := &review.Error{Code: review.ErrCodeMissingInput, Message: "leads.jsonl not found", Index: -1}
	corrupt := &review.Error{Code: review.ErrCodeCorruptSession, Message: "bad snapshot", Index: -1}
	failed := &review.Error{Code: review.ErrCodePersistenceFailure, Message: "disk full", Index: -1}

	err := sessionExitError("failed to open session", missing)
	assert.Equal(t, ExitCommandError, err.Code)
	assert.True(t, review.IsMissingInput(err))

	err = sessionExitError("failed to open session", corrupt)
	assert.Equal(t, ExitCommandError, err.Code)
	assert.Contains(t, err.Error(), "--fresh")

	err = sessionExitError("failed to save", failed)
	assert.Equal(t, ExitFailure, err.Code)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "E_OUT_OF_RANGE", errorCode(&review.Error{Code: review.ErrCodeOutOfRange}))
	assert.Equal(t, "E_FAILED", errorCode(errors.New("boom")))
}
