// Package workspace manages the temporary files and directories of a TeX
// build.
//
// A TempPath owns one path and deletes it on Release unless it was told to
// keep it. Whether a build's generated source and its scratch directory
// survive is decided by the user-facing KeepLevel:
//
//	KeepNone  everything is removed
//	KeepTeX   the generated .tex source is kept
//	KeepAll   the scratch directory with the engine's working files is kept too
package workspace
