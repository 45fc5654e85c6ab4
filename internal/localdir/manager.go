package localdir

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_prompter.go -package=mocks courseflow/internal/localdir AccessPrompter

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Ref is a persisted reference to a user-selected directory: an opaque
// identifier plus the chosen root. The reference itself survives restarts;
// the access grant does not.
type Ref struct {
	ID   string
	Root string
}

// AccessPrompter asks the user to grant access to a directory. The call is
// user-blocking: it suspends until the user responds, so it must only be
// reached from an explicit user action.
type AccessPrompter interface {
	RequestAccess(ctx context.Context, ref Ref, write bool) (bool, error)
}

// PrompterFunc adapts a function to the AccessPrompter interface.
type PrompterFunc func(ctx context.Context, ref Ref, write bool) (bool, error)

// RequestAccess calls f.
func (f PrompterFunc) RequestAccess(ctx context.Context, ref Ref, write bool) (bool, error) {
	return f(ctx, ref, write)
}

type grantMode int

const (
	grantRead grantMode = iota + 1
	grantReadWrite
)

// Manager mediates access to referenced directories. Grants are held only
// in memory: every process run starts with no grants, mirroring a
// capability whose authorization does not survive a session restart.
type Manager struct {
	prompter AccessPrompter

	mu     sync.Mutex
	grants map[string]grantMode // keyed by Ref.ID
}

// NewManager creates a new Manager with an empty grant set.
func NewManager(prompter AccessPrompter) *Manager {
	return &Manager{
		prompter: prompter,
		grants:   make(map[string]grantMode),
	}
}

// Granted reports whether the reference currently holds a sufficient grant.
// It never prompts.
func (m *Manager) Granted(ref Ref, write bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode, ok := m.grants[ref.ID]
	if !ok {
		return false
	}
	return !write || mode == grantReadWrite
}

// Revoke drops the session grant for a reference.
func (m *Manager) Revoke(ref Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants, ref.ID)
}

// CheckOrRequestAccess returns whether the reference is usable with the
// requested mode. It first checks the current grant without prompting, and
// only prompts the user when no sufficient grant exists, so an already
// authorized reference never triggers a redundant dialog. A root that has
// gone missing or unreadable counts as denied, the same as a revoked
// reference.
func (m *Manager) CheckOrRequestAccess(ctx context.Context, ref Ref, write bool) (bool, error) {
	if m.Granted(ref, write) {
		return m.rootUsable(ref), nil
	}

	granted, err := m.prompter.RequestAccess(ctx, ref, write)
	if err != nil {
		return false, fmt.Errorf("access prompt failed for %q: %w", ref.Root, err)
	}
	if !granted {
		return false, nil
	}
	if !m.rootUsable(ref) {
		return false, nil
	}

	mode := grantRead
	if write {
		mode = grantReadWrite
	}
	m.mu.Lock()
	m.grants[ref.ID] = mode
	m.mu.Unlock()
	return true, nil
}

// rootUsable verifies the referenced root still exists and is a directory.
func (m *Manager) rootUsable(ref Ref) bool {
	info, err := os.Stat(ref.Root)
	return err == nil && info.IsDir()
}
