package localdir

import (
	"context"
	"testing"
)

// countingPrompter grants or denies and records how many times it was asked.
type countingPrompter struct {
	grant bool
	calls int
}

func (p *countingPrompter) RequestAccess(ctx context.Context, ref Ref, write bool) (bool, error) {
	p.calls++
	return p.grant, nil
}

func TestManager_CheckOrRequestAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("prompts once then reuses grant", func(t *testing.T) {
		prompter := &countingPrompter{grant: true}
		m := NewManager(prompter)
		ref := Ref{ID: "ref-1", Root: t.TempDir()}

		for i := 0; i < 3; i++ {
			granted, err := m.CheckOrRequestAccess(ctx, ref, false)
			if err != nil {
				t.Fatalf("CheckOrRequestAccess() #%d error = %v", i+1, err)
			}
			if !granted {
				t.Fatalf("CheckOrRequestAccess() #%d = false, want granted", i+1)
			}
		}
		if prompter.calls != 1 {
			t.Errorf("prompter called %d times, want 1", prompter.calls)
		}
	})

	t.Run("denied prompt", func(t *testing.T) {
		prompter := &countingPrompter{grant: false}
		m := NewManager(prompter)
		ref := Ref{ID: "ref-1", Root: t.TempDir()}

		granted, err := m.CheckOrRequestAccess(ctx, ref, false)
		if err != nil {
			t.Fatalf("CheckOrRequestAccess() error = %v", err)
		}
		if granted {
			t.Error("CheckOrRequestAccess() = true after denial")
		}
	})

	t.Run("revoked root counts as denied", func(t *testing.T) {
		prompter := &countingPrompter{grant: true}
		m := NewManager(prompter)
		ref := Ref{ID: "ref-1", Root: "/nonexistent/course/root"}

		granted, err := m.CheckOrRequestAccess(ctx, ref, false)
		if err != nil {
			t.Fatalf("CheckOrRequestAccess() error = %v", err)
		}
		if granted {
			t.Error("CheckOrRequestAccess() = true for missing root")
		}
	})

	t.Run("read grant does not satisfy write", func(t *testing.T) {
		prompter := &countingPrompter{grant: true}
		m := NewManager(prompter)
		ref := Ref{ID: "ref-1", Root: t.TempDir()}

		if _, err := m.CheckOrRequestAccess(ctx, ref, false); err != nil {
			t.Fatalf("CheckOrRequestAccess(read) error = %v", err)
		}
		if m.Granted(ref, true) {
			t.Error("Granted(write) = true after read-only grant")
		}

		// Write access requires a second prompt.
		if _, err := m.CheckOrRequestAccess(ctx, ref, true); err != nil {
			t.Fatalf("CheckOrRequestAccess(write) error = %v", err)
		}
		if prompter.calls != 2 {
			t.Errorf("prompter called %d times, want 2", prompter.calls)
		}
		if !m.Granted(ref, true) {
			t.Error("Granted(write) = false after write grant")
		}
	})

	t.Run("revoke clears grant", func(t *testing.T) {
		prompter := &countingPrompter{grant: true}
		m := NewManager(prompter)
		ref := Ref{ID: "ref-1", Root: t.TempDir()}

		if _, err := m.CheckOrRequestAccess(ctx, ref, false); err != nil {
			t.Fatalf("CheckOrRequestAccess() error = %v", err)
		}
		m.Revoke(ref)
		if m.Granted(ref, false) {
			t.Error("Granted() = true after Revoke()")
		}
	})
}
