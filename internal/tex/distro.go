package tex

import (
	"fmt"
	"strings"

	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
)

// Distro is the kind of TeX backend.
type Distro string

const (
	DistroTeXLive          Distro = "texlive"
	DistroTectonic         Distro = "tectonic"
	DistroTectonicEmbedded Distro = "tectonicembedded"
	// DistroNone writes the .tex file and skips compilation.
	DistroNone Distro = "none"
)

// Distros lists every known kind in display order.
var Distros = []Distro{DistroTeXLive, DistroTectonic, DistroTectonicEmbedded, DistroNone}

// ParseDistro matches name case-insensitively.
func ParseDistro(name string) (Distro, error) {
	d := Distro(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Distros {
		if d == known {
			return d, nil
		}
	}
	names := make([]string, len(Distros))
	for i, known := range Distros {
		names[i] = string(known)
	}
	return "", fmt.Errorf("%w `%s` (valid: %s)", texerrors.ErrUnknownDistro, name, strings.Join(names, ", "))
}

// DefaultProgram is the executable used when none is configured.
func (d Distro) DefaultProgram() string {
	switch d {
	case DistroTeXLive:
		return "xelatex"
	case DistroTectonic:
		return "tectonic"
	default:
		return ""
	}
}

func (d Distro) versionFlag() string {
	switch d {
	case DistroTeXLive:
		return "-version"
	case DistroTectonic, DistroTectonicEmbedded:
		return "--version"
	default:
		return ""
	}
}

// statusLabel prefixes streamed engine output in the Normal tier.
func (d Distro) statusLabel() string {
	switch d {
	case DistroTeXLive:
		return "TeX"
	case DistroTectonic, DistroTectonicEmbedded:
		return "Tectonic"
	default:
		return string(d)
	}
}
