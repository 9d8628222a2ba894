//go:build !tectonic_embedded

package tex

// EmbeddedAvailable reports whether this binary carries the embedded
// tectonic engine.
const EmbeddedAvailable = false
