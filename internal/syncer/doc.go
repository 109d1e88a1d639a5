// Package syncer implements the bidirectional sync engine: the six-step
// protocol that imports home-directory changes into the repository, commits
// and reconciles them with the remote, and only then exports repository
// content back into the home directory.
//
// The ordering is the safety property. The home directory is never written
// until the repository is committed, rebased onto the remote, and free of
// conflicts, so an interrupted rebase can never leave conflict markers or
// half-merged content in the user's live configuration files.
package syncer
