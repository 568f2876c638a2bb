package blobstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fragments/internal/models"
)

func payloadStores(t *testing.T) map[string]PayloadStore {
	t.Helper()
	plain, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	compressed, err := NewLocal(t.TempDir(), WithCompression(true))
	if err != nil {
		t.Fatalf("new local compressed: %v", err)
	}
	return map[string]PayloadStore{
		"local":      plain,
		"local-zstd": compressed,
		"memory":     NewMemory(),
	}
}

func TestPayloadPutGetDelete(t *testing.T) {
	payloads := map[string][]byte{
		"small":        []byte("hello"),
		"compressible": bytes.Repeat([]byte("fragment "), 4096),
		"empty":        {},
	}

	for name, st := range payloadStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for label, payload := range payloads {
				if err := st.Put(ctx, "u1", label, payload); err != nil {
					t.Fatalf("put %s: %v", label, err)
				}
				got, ok, err := st.Get(ctx, "u1", label)
				if err != nil {
					t.Fatalf("get %s: %v", label, err)
				}
				if !ok {
					t.Fatalf("expected %s to exist", label)
				}
				if !bytes.Equal(got, payload) {
					t.Fatalf("%s: round trip mismatch (got %d bytes, want %d)", label, len(got), len(payload))
				}
			}

			if err := st.Put(ctx, "u1", "small", []byte("replaced")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _, err := st.Get(ctx, "u1", "small")
			if err != nil {
				t.Fatalf("get overwritten: %v", err)
			}
			if string(got) != "replaced" {
				t.Fatalf("expected replaced payload, got %q", got)
			}

			if err := st.Delete(ctx, "u1", "small"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, err := st.Get(ctx, "u1", "small"); err != nil || ok {
				t.Fatalf("expected payload gone, ok=%v err=%v", ok, err)
			}
			if err := st.Delete(ctx, "u1", "small"); err != nil {
				t.Fatalf("delete missing should be noop: %v", err)
			}
		})
	}
}

func TestPayloadOwnersAreIsolated(t *testing.T) {
	for name, st := range payloadStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Put(ctx, "u1", "f1", []byte("mine")); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, ok, err := st.Get(ctx, "u2", "f1"); err != nil || ok {
				t.Fatalf("expected other owner to see nothing, ok=%v err=%v", ok, err)
			}

			// Owner and id joined with "/" must not alias another pair.
			if err := st.Put(ctx, "alice", "x/y", []byte("alice secret")); err != nil {
				t.Fatalf("put alice: %v", err)
			}
			if _, ok, err := st.Get(ctx, "alice/x", "y"); err != nil || ok {
				t.Fatalf("expected alice/x to see nothing, ok=%v err=%v", ok, err)
			}
			if err := st.Put(ctx, "alice/x", "y", []byte("other")); err != nil {
				t.Fatalf("put alice/x: %v", err)
			}
			if err := st.Delete(ctx, "alice/x", "y"); err != nil {
				t.Fatalf("delete alice/x: %v", err)
			}
			got, ok, err := st.Get(ctx, "alice", "x/y")
			if err != nil || !ok || string(got) != "alice secret" {
				t.Fatalf("expected alice payload intact, got %q ok=%v err=%v", got, ok, err)
			}
		})
	}
}

func TestPayloadCancelledContextIsStorageError(t *testing.T) {
	for name, st := range payloadStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := st.Put(ctx, "u1", "f1", []byte("x")); !models.IsStorage(err) {
				t.Fatalf("put: expected storage error, got %v", err)
			}
			if _, _, err := st.Get(ctx, "u1", "f1"); !models.IsStorage(err) {
				t.Fatalf("get: expected storage error, got %v", err)
			}
			if err := st.Delete(ctx, "u1", "f1"); !models.IsStorage(err) {
				t.Fatalf("delete: expected storage error, got %v", err)
			}
		})
	}
}

func TestNilLocalIsStorageError(t *testing.T) {
	var st *Local
	if err := st.Put(context.Background(), "u1", "f1", []byte("x")); !models.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPayloadRejectsEmptyKeys(t *testing.T) {
	for name, st := range payloadStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Put(context.Background(), "", "f1", []byte("x")); !models.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, _, err := st.Get(context.Background(), "u1", ""); !models.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLocalCompressesOnDisk(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocal(root, WithCompression(true))
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	payload := []byte(strings.Repeat("a", 64*1024))
	if err := st.Put(context.Background(), "u1", "f1", payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := os.ReadFile(st.pathFor("u1", "f1"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if raw[0] != encodingZstd {
		t.Fatalf("expected zstd encoding byte, got %d", raw[0])
	}
	if len(raw) >= len(payload) {
		t.Fatalf("expected compressed file smaller than payload: %d >= %d", len(raw), len(payload))
	}
}

func TestLocalPathIgnoresTraversal(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocal(root)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	path := st.pathFor("../../etc", "passwd")
	rel, err := filepath.Rel(filepath.Join(st.root, "objects"), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Fatalf("expected path inside objects dir, got %s", path)
	}
}

func TestLocalCorruptFileIsStorageError(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	path := st.pathFor("u1", "f1")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte{9, 1, 2}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := st.Get(context.Background(), "u1", "f1"); !models.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
