// Package workflows provides high-level orchestration for dotsync commands.
//
// Workflows coordinate multiple operations across packages (configs, vault,
// syncer, stubdb, audit) to implement complete user-facing features. Each
// workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving settings, the registry, and the encryption key
//   - Validating prerequisites
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Each command has a corresponding workflow:
//
//   - Init: Initializes a dotfiles repository with git and registry
//   - Add: Tracks a stub or direct path, optionally encrypted
//   - Remove: Untracks a stub or path
//   - List: Reports tracked entries or the available stub database
//   - Status: Computes per-file sync state
//   - Scan: Reports stub coverage across the system
//   - Sync: Runs the six-step bidirectional sync protocol
//   - Continue: Resumes a sync interrupted by a rebase conflict
//   - CreateStub: Defines a custom stub in the repository database
//   - Pull, Push: Standalone remote operations
package workflows
