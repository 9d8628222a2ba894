package tex

import "strings"

// EngineProgram is the tectonic binary the embedded engine hands passes to.
const EngineProgram = "tectonic"

// EngineArgs turns the arguments of an embedded engine invocation
// ("<exe> tectonic -o <dir> -- <tex>") into a tectonic command line.
// Intermediates are kept and reruns disabled, since passes and table of
// contents sorting are driven from here. The output directory is added to
// the search path or tectonic does not pick up the .toc file with -r 0.
func EngineArgs(args []string) []string {
	out := []string{"-k", "-r", "0"}

	var outDir string
	for i, a := range args {
		if a == "--" {
			break
		}
		switch {
		case (a == "-o" || a == "--outdir") && i+1 < len(args):
			outDir = args[i+1]
		case strings.HasPrefix(a, "--outdir="):
			outDir = strings.TrimPrefix(a, "--outdir=")
		}
	}

	var search []string
	if outDir != "" {
		search = []string{"-Z", "search-path=" + outDir}
	}

	for i, a := range args {
		if a == "--" {
			out = append(out, search...)
			return append(out, args[i:]...)
		}
		out = append(out, a)
	}
	return append(out, search...)
}
