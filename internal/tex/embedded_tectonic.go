//go:build tectonic_embedded

package tex

// EmbeddedAvailable reports whether this binary carries the embedded
// tectonic engine. The engine is reached by re-executing the binary with a
// leading "tectonic" argument.
const EmbeddedAvailable = true
