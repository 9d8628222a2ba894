package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeepLevel is the retention policy for build intermediates. Levels are
// ordered; a higher level keeps everything a lower one does.
type KeepLevel int

const (
	KeepNone KeepLevel = iota
	KeepTeX
	KeepAll
)

var keepLevelNames = map[string]KeepLevel{
	"none": KeepNone,
	"tex":  KeepTeX,
	"all":  KeepAll,
}

// ParseKeepLevel accepts the level names (none, tex, all) or their numeric
// values (0, 1, 2). Numbers above 2 saturate to KeepAll.
func ParseKeepLevel(raw string) (KeepLevel, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return KeepNone, nil
	}
	if lvl, ok := keepLevelNames[s]; ok {
		return lvl, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return KeepNone, fmt.Errorf("invalid keep level %q, valid options: none, tex, all (or 0-2)", raw)
	}
	if n > int(KeepAll) {
		n = int(KeepAll)
	}
	return KeepLevel(n), nil
}

func (k KeepLevel) String() string {
	switch k {
	case KeepNone:
		return "none"
	case KeepTeX:
		return "tex"
	default:
		return "all"
	}
}

// KeepsTeX reports whether the generated source file survives the build.
func (k KeepLevel) KeepsTeX() bool { return k >= KeepTeX }

// KeepsScratch reports whether the scratch directory survives the build.
func (k KeepLevel) KeepsScratch() bool { return k >= KeepAll }

// UnmarshalYAML accepts both the numeric and the named form.
func (k *KeepLevel) UnmarshalYAML(node *yaml.Node) error {
	lvl, err := ParseKeepLevel(node.Value)
	if err != nil {
		return err
	}
	*k = lvl
	return nil
}

// MarshalYAML writes the named form.
func (k KeepLevel) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
