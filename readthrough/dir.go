package readthrough

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NewDir returns a Backend that keeps one file per entry in dir, named by
// prefix and the sha256 of the key.
func NewDir(dir, prefix string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating cache dir '%s': %w", dir, err)
	}
	return &Dir{dir: dir, prefix: prefix}, nil
}

type Dir struct {
	dir, prefix string
}

func (d *Dir) Get(key string) ([]byte, error) {
	hash, filename := d.hashAndFilename(key)

	bs, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cache miss for '%s': %w", hash, ErrMiss)
	} else if err != nil {
		return nil, fmt.Errorf("error reading cache file '%s': %w", hash, err)
	}
	return bs, nil
}

func (d *Dir) Set(key string, value []byte) error {
	hash, filename := d.hashAndFilename(key)

	tmp, err := os.CreateTemp(d.dir, d.prefix+hash+".*")
	if err != nil {
		return fmt.Errorf("error opening cache file '%s' for write: %w", hash, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing cache file '%s': %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error closing cache file '%s': %w", hash, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("error moving cache file '%s' into place: %w", hash, err)
	}
	return nil
}

func (d *Dir) hashAndFilename(key string) (string, string) {
	var hasher = sha256.New()
	hasher.Write([]byte(key))
	hash := hex.EncodeToString(hasher.Sum(nil))
	return hash, filepath.Join(d.dir, d.prefix+hash)
}
