// Package errors provides typed error values for the dotsync application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Precondition errors: repository state the user must fix before retrying
//     (ErrNotInitialized, ErrNotGitRepository)
//   - Crypto errors: encryption/decryption failures (ErrDecryptFailed)
//   - Registry errors: tracked-file registry issues (ErrDuplicatePath)
//   - ConflictError: a rebase conflict that aborted a sync
//
// # Usage
//
// Return errors from internal packages:
//
//	if !registry.IsInitialized(repoPath) {
//	    return nil, errors.ErrNotInitialized
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Sync(ctx, opts)
//	if errors.Is(err, kerrors.ErrNotInitialized) {
//	    // Show user-friendly message
//	}
//
// ConflictError is a struct type because it carries the conflicted file
// list and is the one error whose handling needs the payload; retrieve it
// with AsConflict or errors.As.
package errors
