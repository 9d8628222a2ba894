// Package tex drives an external TeX engine to turn a generated .tex file
// into a PDF.
//
// The flow has three steps:
//
//  1. A Resolver picks the backend (Config) from the environment, the
//     project file, the embedded engine or by probing the known
//     distributions, and returns immutable Tools.
//  2. NewRenderJob prepares a RenderJob: the source file guard, a scratch
//     directory next to the destination and the rerun settings.
//  3. Tools.RenderPDF runs the passes, reorders the table of contents
//     between them and moves the PDF into place. The job is always
//     released, honoring its retention level.
package tex
