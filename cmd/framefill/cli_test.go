package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `name: titles
fonts:
  - Comic Sans MS Regular
defaults:
  font: Comic Sans MS Regular
  size: 12
  alignment: left
  line_spacing: 15
  line_mode: fixed
frames:
  - name: TitleFrame
    width: 100
    height: 46
    next: TitleFrame2
  - name: TitleFrame2
    width: 100
    height: 46
  - name: Caption
    width: 300
    height: 20
`

func setupWorkspace(t *testing.T) (dir, layoutPath string) {
	t.Helper()
	dir = t.TempDir()
	layoutPath = filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(layoutPath, []byte(testLayout), 0o644))

	// Keep .env files and the caller's environment out of the test.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("LAYOUT_PATH", layoutPath)
	t.Setenv("FRAME_NAME", "TitleFrame")
	t.Setenv("CSV_SKIP_HEADER", "false")
	t.Setenv("LAYOUT_SAVE", "true")
	return dir, layoutPath
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestFill(t *testing.T) {
	dir, layoutPath := setupWorkspace(t)
	csvPath := filepath.Join(dir, "titles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Title\nAlpha\nBeta\n"), 0o644))

	stdout, _, err := execute(t, "fill", "--skip-header", csvPath)
	require.NoError(t, err)
	assert.Equal(t, "2 rows updated.\n", stdout)

	layout, err := document.LoadLayout(layoutPath)
	require.NoError(t, err)
	text, err := layout.Text("TitleFrame")
	require.NoError(t, err)
	assert.Equal(t, "Alpha\nBeta", text)

	style, err := layout.StyleAt("TitleFrame", 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, style.Size)
	assert.Equal(t, document.AlignCenter, style.Alignment)
}

func TestFill_OverflowWarns(t *testing.T) {
	dir, _ := setupWorkspace(t)
	csvPath := filepath.Join(dir, "titles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("One\nTwo\nThree\nFour\nFive\n"), 0o644))

	stdout, stderr, err := execute(t, "fill", csvPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Text flows beyond linked frames starting at 'TitleFrame'.")
}

func TestFill_Errors(t *testing.T) {
	dir, _ := setupWorkspace(t)
	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("Title\n"), 0o644))

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"unknown frame", []string{"fill", "--frame", "Nope", headerOnly}, "FRM001"},
		{"header only", []string{"fill", "--skip-header", headerOnly}, "CSV001"},
		{"missing file", []string{"fill", filepath.Join(dir, "missing.csv")}, "FILE006"},
		{"missing layout", []string{"fill", "--layout", filepath.Join(dir, "none.yaml"), headerOnly}, "FILE006"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, errReported)
			assert.Contains(t, stderr, "(Code: "+tt.wantCode+")")
		})
	}
}

func TestPreview(t *testing.T) {
	dir, _ := setupWorkspace(t)
	csvPath := filepath.Join(dir, "titles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("\ufeffTitle,Sub\n\"Line one\nLine two\",x\nSecond,y\n"), 0o644))

	stdout, _, err := execute(t, "preview", "-n", "5", "--skip-header", csvPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "First 2 of 2 values")
	assert.Equal(t, `Row 1: "Line one\nLine two"`, lines[1])
	assert.Equal(t, `Row 2: "Second"`, lines[2])
}

func TestPreview_UnmappedErrorShowsDetails(t *testing.T) {
	dir, _ := setupWorkspace(t)

	// Reading a directory fails with an error that has no specific message.
	_, stderr, err := execute(t, "preview", dir)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "(Code: ERR000)")
	assert.Contains(t, stderr, "Details: ")
	assert.Contains(t, stderr, "is a directory")
}

func TestPreview_MappedErrorHasNoDetails(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, stderr, err := execute(t, "preview", filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "(Code: FILE006)")
	assert.NotContains(t, stderr, "Details: ")
}

func TestFrames(t *testing.T) {
	setupWorkspace(t)

	stdout, _, err := execute(t, "frames")
	require.NoError(t, err)
	assert.Contains(t, stdout, "TitleFrame *")
	assert.Contains(t, stdout, "TitleFrame -> TitleFrame2")
	assert.Contains(t, stdout, "Caption")
}

func TestFlagsValidated(t *testing.T) {
	dir, _ := setupWorkspace(t)
	_, _, err := execute(t, "preview", "--column=-1", filepath.Join(dir, "x.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV_COLUMN")
}
