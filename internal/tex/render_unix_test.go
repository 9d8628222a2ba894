//go:build unix

package tex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texbuilder/internal/console"
	"git.home.luguber.info/inful/texbuilder/internal/interrupt"
	"git.home.luguber.info/inful/texbuilder/internal/process"
	"git.home.luguber.info/inful/texbuilder/internal/sortlines"
	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
	"git.home.luguber.info/inful/texbuilder/internal/workspace"
)

// fakeEngine writes an executable that accepts the texlive command line
// (-interaction=nonstopmode -output-directory TMP -- TEX) and appends one
// line per pass to passLog.
func fakeEngine(t *testing.T, passLog string, body string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
tmp="$3"
tex="$5"
stem=$(basename "$tex" .tex)
echo pass >> %q
echo "This is FakeTeX"
%s
`, passLog, body)
	path := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

const (
	writeTOC = `printf 'entry {b}\nentry {a}\n' > "$tmp/$stem.toc"`
	writePDF = `cp "$tex" "$tmp/$stem.pdf"`
)

func passCount(t *testing.T, passLog string) int {
	t.Helper()
	data, err := os.ReadFile(passLog)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "pass\n")
}

func countingSorter(calls *int) SortFunc {
	return func(pattern, path string) (int, error) {
		*calls++
		return sortlines.SortFile(pattern, path)
	}
}

func TestRenderPDFReorderBeforeEachRerun(t *testing.T) {
	dir := t.TempDir()
	passLog := filepath.Join(t.TempDir(), "passes.log")
	engine := fakeEngine(t, passLog, writeTOC+"\n"+writePDF)
	tex := writeTex(t, dir)
	pdf := filepath.Join(dir, "book.pdf")

	job, err := NewRenderJob(tex, pdf, workspace.KeepNone, `entry \{(.*)\}`, 2)
	require.NoError(t, err)

	sorts := 0
	tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard()).
		WithSorter(countingSorter(&sorts))

	require.NoError(t, tools.RenderPDF(job))
	assert.Equal(t, 3, passCount(t, passLog))
	assert.Equal(t, 2, sorts)

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "\\documentclass{book}\n", string(data))
	assert.NoFileExists(t, tex)
	assert.Empty(t, scratchDirs(t, dir))
}

func TestRenderPDFSortsTOCInPlace(t *testing.T) {
	dir := t.TempDir()
	passLog := filepath.Join(t.TempDir(), "passes.log")
	// The second pass copies the sorted toc next to the output.
	engine := fakeEngine(t, passLog, `if [ -f "$tmp/$stem.toc" ]; then cp "$tmp/$stem.toc" "$(dirname "$tmp")/seen.toc"; fi
`+writeTOC+"\n"+writePDF)
	tex := writeTex(t, dir)

	job, err := NewRenderJob(tex, filepath.Join(dir, "book.pdf"), workspace.KeepNone, `entry \{(.*)\}`, 1)
	require.NoError(t, err)

	tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard())
	require.NoError(t, tools.RenderPDF(job))

	seen, err := os.ReadFile(filepath.Join(dir, "seen.toc"))
	require.NoError(t, err)
	assert.Equal(t, "entry {a}\nentry {b}\n", string(seen))
}

func TestRenderPDFSkipsReorderWithoutTOC(t *testing.T) {
	dir := t.TempDir()
	passLog := filepath.Join(t.TempDir(), "passes.log")
	engine := fakeEngine(t, passLog, writePDF)
	tex := writeTex(t, dir)

	job, err := NewRenderJob(tex, filepath.Join(dir, "book.pdf"), workspace.KeepNone, `entry \{(.*)\}`, 1)
	require.NoError(t, err)

	sorts := 0
	tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard()).
		WithSorter(countingSorter(&sorts))

	require.NoError(t, tools.RenderPDF(job))
	assert.Equal(t, 2, passCount(t, passLog))
	assert.Equal(t, 0, sorts)
}

func TestRenderPDFNoKeyNeverReorders(t *testing.T) {
	dir := t.TempDir()
	passLog := filepath.Join(t.TempDir(), "passes.log")
	engine := fakeEngine(t, passLog, writeTOC+"\n"+writePDF)
	tex := writeTex(t, dir)

	job, err := NewRenderJob(tex, filepath.Join(dir, "book.pdf"), workspace.KeepNone, "", 1)
	require.NoError(t, err)

	sorts := 0
	tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard()).
		WithSorter(countingSorter(&sorts))

	require.NoError(t, tools.RenderPDF(job))
	assert.Equal(t, 2, passCount(t, passLog))
	assert.Equal(t, 0, sorts)
}

func TestRenderPDFCompileFailure(t *testing.T) {
	tests := []struct {
		keep        workspace.KeepLevel
		wantScratch bool
		wantTex     bool
	}{
		{workspace.KeepNone, false, false},
		{workspace.KeepTeX, false, true},
		{workspace.KeepAll, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.keep.String(), func(t *testing.T) {
			dir := t.TempDir()
			passLog := filepath.Join(t.TempDir(), "passes.log")
			engine := fakeEngine(t, passLog, `echo "! Undefined control sequence."
exit 1`)
			tex := writeTex(t, dir)
			pdf := filepath.Join(dir, "book.pdf")

			job, err := NewRenderJob(tex, pdf, tt.keep, "", 1)
			require.NoError(t, err)

			tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard())
			err = tools.RenderPDF(job)
			require.ErrorIs(t, err, texerrors.ErrCompileFailed)

			var exitErr *process.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 1, exitErr.Code)
			assert.Contains(t, exitErr.TranscriptString(), "! Undefined control sequence.")

			assert.Equal(t, 1, passCount(t, passLog))
			assert.NoFileExists(t, pdf)
			assert.Equal(t, tt.wantScratch, len(scratchDirs(t, dir)) == 1)
			if tt.wantTex {
				assert.FileExists(t, tex)
			} else {
				assert.NoFileExists(t, tex)
			}
		})
	}
}

func TestRenderPDFBadSortKeyFails(t *testing.T) {
	dir := t.TempDir()
	passLog := filepath.Join(t.TempDir(), "passes.log")
	engine := fakeEngine(t, passLog, writeTOC+"\n"+writePDF)
	tex := writeTex(t, dir)

	job, err := NewRenderJob(tex, filepath.Join(dir, "book.pdf"), workspace.KeepNone, `entry`, 1)
	require.NoError(t, err)

	tools := NewTools(Config{Distro: DistroTeXLive, Program: engine}, interrupt.New(), console.Discard())
	err = tools.RenderPDF(job)
	require.ErrorIs(t, err, sortlines.ErrNoCaptureGroup)
	assert.Equal(t, 1, passCount(t, passLog))
}
