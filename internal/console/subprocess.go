package console

import (
	"fmt"
)

// LineReader yields the merged output lines of a running subprocess.
// ok is false once the output is exhausted.
type LineReader interface {
	ReadLine() (line []byte, ok bool, err error)
}

// SubprocessOutput consumes every line from lines and presents it
// according to the verbosity tier:
//
//	Quiet    nothing is printed
//	Normal   one status line, overwritten with each new output line
//	Verbose  lines are passed through unchanged
//
// All lines are consumed in every tier so the subprocess never blocks on a
// full pipe.
func (c *Console) SubprocessOutput(lines LineReader, program, status string) error {
	if status == "" {
		status = program
	}
	overwrite := c.verbosity == Normal

	if overwrite {
		fmt.Fprintln(c.out)
	}
	for {
		line, ok, err := lines.ReadLine()
		if err != nil {
			if overwrite {
				c.RewindLine()
			}
			return fmt.Errorf("error reading output of program `%s`: %w", program, err)
		}
		if !ok {
			break
		}

		switch c.verbosity {
		case Quiet:
			continue
		case Normal:
			c.RewindLine()
			c.mu.Lock()
			fmt.Fprintf(c.out, "%s: ", c.paint(c.statusStyle, status))
			c.writeLine(line)
			c.mu.Unlock()
		default:
			c.mu.Lock()
			c.writeLine(line)
			c.mu.Unlock()
		}
	}
	if overwrite {
		c.RewindLine()
	}
	return nil
}

// Replay writes previously collected lines verbatim.
func (c *Console) Replay(lines [][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range lines {
		c.writeLine(l)
	}
}

func (c *Console) writeLine(line []byte) {
	_, _ = c.out.Write(line)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		_, _ = c.out.Write([]byte{'\n'})
	}
}
