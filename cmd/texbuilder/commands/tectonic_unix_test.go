//go:build unix

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texbuilder/internal/process"
)

// fakeTectonic puts a tectonic on PATH that records its arguments and exits
// with code.
func fakeTectonic(t *testing.T, code string) string {
	t.Helper()
	bin := t.TempDir()
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$FAKE_TECTONIC_ARGS\"\nexit " + code + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "tectonic"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("FAKE_TECTONIC_ARGS", argsFile)
	return argsFile
}

func TestTectonicCommand_ForwardsRenderPass(t *testing.T) {
	argsFile := fakeTectonic(t, "0")

	_, _, err := runCLI(t, "-q", "tectonic", "-o", "/tmp/scratch", "--", "/src/book.tex")
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"-k", "-r", "0", "-o", "/tmp/scratch", "-Z", "search-path=/tmp/scratch", "--", "/src/book.tex"},
		strings.Fields(string(data)))
}

func TestTectonicCommand_EngineFailure(t *testing.T) {
	fakeTectonic(t, "3")

	_, _, err := runCLI(t, "-q", "tectonic", "-o", "/tmp/scratch", "--", "/src/book.tex")
	require.Error(t, err)
	var exitErr *process.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}
