package syncer

import "context"

// Git is the version-control collaborator the engine drives. It is
// satisfied by gitrepo.Repo; tests substitute a scripted fake so the
// protocol can be exercised without a git binary.
type Git interface {
	IsRepo() bool
	Init(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	HasRemote(ctx context.Context) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	RemoteHasCommits(ctx context.Context, remote, branch string) (bool, error)
	PullRebase(ctx context.Context, remote, branch string) error
	Push(ctx context.Context, remote, branch string) error
	PushSetUpstream(ctx context.Context, remote, branch string) error
	IsInRebase() bool
	HasConflicts(ctx context.Context) (bool, error)
	ConflictedFiles(ctx context.Context) ([]string, error)
	RebaseContinue(ctx context.Context) error
	StageVersion(ctx context.Context, path string, stage int) ([]byte, error)
}
