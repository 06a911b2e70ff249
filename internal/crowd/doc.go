// Package crowd renders a small crowd of procedural construction workers
// whose heads, pupils and eyelids follow a shared attention point.
//
// The package is renderer-agnostic: a Container supplies the render Device,
// the clock, resize notifications and pointer input, and a Stage drives the
// per-frame update. Mount allocates every device resource up front and
// Unmount releases each one exactly once.
package crowd
