package sqlite

import (
	"bytes"
	"context"
	"reflect"
	"testing"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func TestGetAbsentKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	value, err := repo.Get(ctx, "sociogram_nodes_u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil for absent key, got %q", value)
	}
}

func TestPutGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	blob := []byte(`[{"id":"u1","label":"Alice"}]`)
	if err := repo.Put(ctx, "sociogram_nodes_u1", blob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "sociogram_nodes_u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("expected %q, got %q", blob, got)
	}
}

func TestPutOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	key := "sociogram_edges_u1"
	if err := repo.Put(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Put(ctx, key, []byte(`[{"from":"u1","to":"u2"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `[{"from":"u1","to":"u2"}]` {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("removes stored blob", func(t *testing.T) {
		if err := repo.Put(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Delete(ctx, "k"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := repo.Get(ctx, "k")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil after delete, got %q", got)
		}
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		if err := repo.Delete(ctx, "missing"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, key := range []string{
		"sociogram_nodes_u1",
		"sociogram_nodes_u2",
		"sociogram_edges_u1",
	} {
		if err := repo.Put(ctx, key, []byte(`[]`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	keys, err := repo.Keys(ctx, "sociogram_nodes_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"sociogram_nodes_u1", "sociogram_nodes_u2"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}
