package commands

import (
	"fmt"
	"io"
	"os"
)

// CpCmd implements the 'cp' command, a portable copy for post-processing
// scripts.
type CpCmd struct {
	Src  string `arg:"" type:"existingfile" help:"File to copy"`
	Dest string `arg:"" help:"Destination file"`
}

func (c *CpCmd) Run() error {
	return copyFile(c.Src, c.Dest)
}

// copyFile copies src to dest, overwriting dest and keeping src's
// permission bits.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open `%s`: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("could not stat `%s`: %w", src, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("could not create `%s`: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("could not copy `%s` to `%s`: %w", src, dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("could not write `%s`: %w", dest, err)
	}
	return os.Chmod(dest, info.Mode().Perm())
}
