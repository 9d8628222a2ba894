// Package sortlines reorders runs of lines in a text file by a key
// extracted with a regular expression.
//
// TeX engines append table-of-contents entries to the .toc file as they
// meet them, so the order depends on how a previous pass laid out the
// document. Sorting each run of entries by a stable key makes multi-pass
// builds reproducible. Lines the expression does not match are never moved
// and split the file into independently sorted runs.
package sortlines

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// ErrNoCaptureGroup is returned when the expression matched a line but has no
// capture group to take the sort key from.
var ErrNoCaptureGroup = errors.New("no capture group in regex, the sort key has to be in a capture group")

type line struct {
	text   string
	key    string
	hasKey bool
}

// Compile parses pattern and rejects expressions without a capture group
// up front, so configuration can be validated before a build starts.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex `%s`: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("regex `%s`: %w", pattern, ErrNoCaptureGroup)
	}
	return re, nil
}

// SortLines returns lines with every maximal run of keyed lines stably
// sorted by key, and the number of keyed lines.
func SortLines(re *regexp.Regexp, lines []string) ([]string, int, error) {
	parsed := make([]line, 0, len(lines))
	for _, text := range lines {
		l := line{text: text}
		if m := re.FindStringSubmatchIndex(text); m != nil {
			if len(m) < 4 || m[2] < 0 {
				return nil, 0, fmt.Errorf("regex `%s`: %w", re, ErrNoCaptureGroup)
			}
			l.key = text[m[2]:m[3]]
			l.hasKey = true
		}
		parsed = append(parsed, l)
	}

	count := 0
	for start := 0; start < len(parsed); {
		if !parsed[start].hasKey {
			start++
			continue
		}
		end := start
		for end < len(parsed) && parsed[end].hasKey {
			end++
		}
		run := parsed[start:end]
		sort.SliceStable(run, func(i, j int) bool { return run[i].key < run[j].key })
		count += len(run)
		start = end
	}

	out := make([]string, len(parsed))
	for i, l := range parsed {
		out[i] = l.text
	}
	return out, count, nil
}

// SortFile sorts the lines of the file at path in place and returns the
// number of lines that had a key. When nothing matched the file is left
// untouched and a warning is logged.
func SortFile(pattern, path string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid regex `%s`: %w", pattern, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not open file `%s`: %w", path, err)
	}

	lines, err := splitLines(data)
	if err != nil {
		return 0, fmt.Errorf("could not read file `%s`: %w", path, err)
	}

	sorted, count, err := SortLines(re, lines)
	if err != nil {
		return 0, fmt.Errorf("could not sort file `%s`: %w", path, err)
	}

	if count == 0 {
		slog.Warn("sort-lines: No lines matched the regex", logfields.Path(path))
		return 0, nil
	}

	var buf bytes.Buffer
	for _, l := range sorted {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("could not write file `%s`: %w", path, err)
	}

	slog.Debug("Sorted lines", logfields.Path(path), logfields.Lines(count))
	return count, nil
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
