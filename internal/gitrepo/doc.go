// Package gitrepo wraps the git binary for the repository operations the
// sync engine needs: staging, committing, rebase-based pulls, pushes, and
// inspection of conflict state during an interrupted rebase.
package gitrepo
