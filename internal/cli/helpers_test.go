package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/witherBattler/edit-hunt-ai/internal/persist"
	"github.com/witherBattler/edit-hunt-ai/internal/testutil"
)

// workspace is a scratch directory holding a leads file and checkpoint paths.
type workspace struct {
	dir   string
	input string
	paths persist.Paths
}

func newWorkspace(t *testing.T, texts ...string) workspace {
	t.Helper()
	dir := t.TempDir()
	return workspace{
		dir:   dir,
		input: testutil.WriteLeads(t, dir, texts...),
		paths: persist.Paths{
			Accepted: filepath.Join(dir, persist.DefaultAcceptedFile),
			Rejected: filepath.Join(dir, persist.DefaultRejectedFile),
			Snapshot: filepath.Join(dir, persist.DefaultSnapshotFile),
		},
	}
}

// args returns the session flags pointing at the workspace, followed by extra.
func (w workspace) args(extra ...string) []string {
	return append([]string{
		"--input", w.input,
		"--accepted", w.paths.Accepted,
		"--rejected", w.paths.Rejected,
		"--snapshot", w.paths.Snapshot,
	}, extra...)
}

func (w workspace) flags() SessionFlags {
	return SessionFlags{
		Input:    w.input,
		Accepted: w.paths.Accepted,
		Rejected: w.paths.Rejected,
		Snapshot: w.paths.Snapshot,
	}
}

func (w workspace) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// testCommand returns a bare command for calling run* functions directly.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, buf
}
