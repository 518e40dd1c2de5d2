// Package artifacts persists trained models as a single checksummed bundle file.
package artifacts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/ports"
)

// DefaultFileName is the bundle file name inside the artifact directory.
const DefaultFileName = "model.fnd"

var magic = []byte("FND1")

// FileStore keeps one bundle: magic, SHA-256 of the payload, zstd-compressed JSON.
// Save writes a temp file, fsyncs it and renames it over the previous bundle, so
// readers see either the old or the new model, never a mix.
type FileStore struct {
	dir  string
	name string
}

var _ ports.ArtifactStore = (*FileStore)(nil)

// NewFileStore stores bundles under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, name: DefaultFileName}
}

// Path is the full bundle path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Save replaces the stored bundle with m.
func (s *FileStore) Save(ctx context.Context, m *model.Model) error {
	if m == nil {
		return fmt.Errorf("save artifacts: nil model")
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	payload := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd encoder close: %w", err)
	}
	sum := sha256.Sum256(payload)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	for _, chunk := range [][]byte{magic, sum[:], payload} {
		if _, err := tmp.Write(chunk); err != nil {
			_ = tmp.Close()
			cleanup()
			return fmt.Errorf("write temp bundle: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp bundle: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		cleanup()
		return fmt.Errorf("publish bundle: %w", err)
	}
	syncDir(s.dir)
	return nil
}

// Load reads and verifies the bundle.
func (s *FileStore) Load(ctx context.Context) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, s.Path())
	}
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*model.Model, error) {
	header := len(magic) + sha256.Size
	if len(data) < header || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("%w: missing bundle header", domain.ErrArtifactCorrupt)
	}
	payload := data[header:]
	sum := sha256.Sum256(payload)
	if !bytes.Equal(sum[:], data[len(magic):header]) {
		return nil, fmt.Errorf("%w: checksum mismatch", domain.ErrArtifactCorrupt)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", domain.ErrArtifactCorrupt, err)
	}

	var m model.Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrArtifactCorrupt, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}
	return &m, nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
