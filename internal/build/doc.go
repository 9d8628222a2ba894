// Package build provides the canonical build execution pipeline for texbuilder.
//
// BuildService resolves the TeX backend once, then renders every output of
// the project file in order: compile the generated .tex into a PDF and run
// the output's post-processing script, if any. The first failing output
// stops the build. The interrupt flag is checked between outputs.
//
// The package also defines sentinel errors for the post-processing stage.
// They should always be wrapped with context at the call site.
package build
