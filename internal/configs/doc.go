// Package configs handles dotsync's persistent configuration: the
// tracked-file registry stored inside the repository and the per-machine
// local overlay stored in the user's home directory.
//
// # Registry
//
// dotsync.config.json lives at the repository root and holds the ordered
// list of tracked entries. It is the source of truth for what dotsync
// manages and travels with the repository.
//
// # Local overlay
//
// ~/.dotsync.local.json is machine-local (never committed) and carries
// per-machine settings such as the repository path. Where both layers
// define a field, the local overlay wins field-by-field; Merge implements
// that as a pure function.
//
// # Settings
//
// Settings resolves all well-known paths (key file, local config,
// registry) once per command run and is passed by reference into the
// layers that need it. There is no package-level mutable state.
package configs
