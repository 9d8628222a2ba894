package tex

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
	"git.home.luguber.info/inful/texbuilder/internal/workspace"
)

// RenderJob is one source file to compile into one PDF. It is consumed by
// Tools.RenderPDF, which always releases it.
type RenderJob struct {
	TexFile *workspace.TempPath
	TmpDir  *workspace.TempPath
	PDFFile string
	// TocSortKey is a regexp with one capture group; empty disables reordering.
	TocSortKey string
	Reruns     int
}

// NewRenderJob prepares a job for texFile, which must already be written.
// The scratch directory is created next to pdfFile so the final rename
// stays on one filesystem.
func NewRenderJob(texFile, pdfFile string, keep workspace.KeepLevel, tocSortKey string, reruns int) (*RenderJob, error) {
	if reruns < 0 {
		return nil, fmt.Errorf("reruns must not be negative, got %d", reruns)
	}
	texAbs, err := filepath.Abs(texFile)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", texFile, err)
	}
	pdfAbs, err := filepath.Abs(pdfFile)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", pdfFile, err)
	}

	tmp, err := workspace.MakeTempDir(pdfAbs, !keep.KeepsScratch())
	if err != nil {
		return nil, err
	}

	return &RenderJob{
		TexFile:    workspace.NewFile(texAbs, !keep.KeepsTeX()),
		TmpDir:     tmp,
		PDFFile:    pdfAbs,
		TocSortKey: tocSortKey,
		Reruns:     reruns,
	}, nil
}

// Close releases the scratch directory and the source file. Cleanup
// failures are logged, never returned.
func (j *RenderJob) Close() {
	for _, p := range []*workspace.TempPath{j.TmpDir, j.TexFile} {
		if err := p.Release(); err != nil {
			slog.Warn("Could not clean up", logfields.Error(fmt.Errorf("%w: %w", texerrors.ErrCleanupFailed, err)))
		}
	}
}

// cwd is the engine's working directory.
func (j *RenderJob) cwd() string {
	return filepath.Dir(j.PDFFile)
}

func (j *RenderJob) tocFile() string {
	return j.TmpDir.JoinStem(j.TexFile.Stem(), ".toc")
}

func (j *RenderJob) builtPDF() string {
	return j.TmpDir.JoinStem(j.TexFile.Stem(), ".pdf")
}

func (j *RenderJob) movePDF() error {
	if err := os.Rename(j.builtPDF(), j.PDFFile); err != nil {
		return fmt.Errorf("%w `%s`: %w", texerrors.ErrArtifactNotProduced, j.PDFFile, err)
	}
	return nil
}

func tocExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
