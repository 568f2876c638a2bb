package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"fragments/internal/models"
)

const (
	localBackendName = "local"

	// Every payload file starts with one encoding byte.
	encodingRaw  byte = 0
	encodingZstd byte = 1
)

// zstd.Encoder and zstd.Decoder are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("blobstore: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("blobstore: zstd decoder initialization failed: " + err.Error())
	}
}

// Local stores fragment payloads as files in a sharded tree under root.
type Local struct {
	root     string
	compress bool
}

// LocalOption configures a Local store.
type LocalOption func(*Local)

// WithCompression enables zstd compression of payloads that shrink.
func WithCompression(enabled bool) LocalOption {
	return func(l *Local) {
		l.compress = enabled
	}
}

// NewLocal creates a local payload store rooted at root.
func NewLocal(root string, opts ...LocalOption) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("local payload root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{"objects", "tmp"} {
		if err := os.MkdirAll(filepath.Join(abs, dir), 0o755); err != nil {
			return nil, err
		}
	}
	l := &Local{root: abs}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Put writes data through a temp file and renames it over any previous payload.
func (l *Local) Put(ctx context.Context, ownerID, id string, data []byte) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	key := models.StorageKey(ownerID, id)
	if err := l.ready(ctx); err != nil {
		return models.WrapStorage(localBackendName, "put", key, err)
	}
	if err := l.put(l.pathFor(ownerID, id), data); err != nil {
		return models.WrapStorage(localBackendName, "put", key, err)
	}
	return nil
}

func (l *Local) put(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Join(l.root, "tmp"), "put-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(l.encode(data)); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Get reads one payload. A missing file reports found=false.
func (l *Local) Get(ctx context.Context, ownerID, id string) ([]byte, bool, error) {
	if err := validateKey(ownerID, id); err != nil {
		return nil, false, err
	}
	key := models.StorageKey(ownerID, id)
	if err := l.ready(ctx); err != nil {
		return nil, false, models.WrapStorage(localBackendName, "get", key, err)
	}
	raw, err := os.ReadFile(l.pathFor(ownerID, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.WrapStorage(localBackendName, "get", key, err)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, false, models.WrapStorage(localBackendName, "get", key, err)
	}
	return data, true, nil
}

// Delete removes one payload. Missing files are ignored.
func (l *Local) Delete(ctx context.Context, ownerID, id string) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	key := models.StorageKey(ownerID, id)
	if err := l.ready(ctx); err != nil {
		return models.WrapStorage(localBackendName, "delete", key, err)
	}
	if err := os.Remove(l.pathFor(ownerID, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.WrapStorage(localBackendName, "delete", key, err)
	}
	return nil
}

func (l *Local) ready(ctx context.Context) error {
	if l == nil {
		return errors.New("payload store is not configured")
	}
	return ctx.Err()
}

// pathFor hashes a length-prefixed owner followed by the id, so no pair of
// distinct (owner, id) keys share a file and caller-supplied ids never reach
// the filesystem.
func (l *Local) pathFor(ownerID, id string) string {
	h := sha256.New()
	var prefix [binary.MaxVarintLen64]byte
	h.Write(prefix[:binary.PutUvarint(prefix[:], uint64(len(ownerID)))])
	h.Write([]byte(ownerID))
	h.Write([]byte(id))
	digest := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(l.root, "objects", digest[0:2], digest[2:4], digest)
}

func (l *Local) encode(data []byte) []byte {
	if l.compress && len(data) > 0 {
		compressed := zstdEncoder.EncodeAll(data, make([]byte, 1, len(data)))
		if len(compressed) < len(data)+1 {
			compressed[0] = encodingZstd
			return compressed
		}
	}
	out := make([]byte, 0, len(data)+1)
	out = append(out, encodingRaw)
	return append(out, data...)
}

func decode(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload file is truncated")
	}
	switch raw[0] {
	case encodingRaw:
		return raw[1:], nil
	case encodingZstd:
		data, err := zstdDecoder.DecodeAll(raw[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown payload encoding %d", raw[0])
	}
}
