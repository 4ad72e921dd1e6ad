// Package overrides is the local override store: a mapping from a work id to
// an image supplied by the user, which takes precedence over any image the
// knowledge graph links to the work.
package overrides

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// A Store reads and records overrides. Load never fails: an unreadable store
// reads as empty.
type Store interface {
	Load() map[string]string
	Set(workID, image string) error
}

// NewFile returns a Store kept as a single JSON document at path, like
//
//	{ "Q12418": "images/Q12418.jpg" }
func NewFile(path string) *File {
	return &File{path: path}
}

type File struct {
	mu   sync.Mutex
	path string
}

// Load reads the whole document. A missing or malformed document reads as an
// empty mapping.
func (f *File) Load() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.read()
	if err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("ignoring unreadable override store")
		return map[string]string{}
	}
	return m
}

// Set records image as the override for workID, rewriting the document.
func (f *File) Set(workID, image string) error {
	if workID == "" {
		return fmt.Errorf("no work id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.read()
	if err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("replacing unreadable override store")
		m = map[string]string{}
	}
	m[workID] = image

	bs, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding override store: %w", err)
	}
	if err := writeFile(f.path, bs); err != nil {
		return fmt.Errorf("error writing override store '%s': %w", f.path, err)
	}
	return nil
}

func (f *File) read() (map[string]string, error) {
	bs, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	} else if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(bs)) == 0 {
		return map[string]string{}, nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(bs, &m); err != nil {
		return nil, fmt.Errorf("error decoding override store: %w", err)
	}
	return m, nil
}

func writeFile(path string, bs []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(bs); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// CopyImage copies the image file at src into dir, naming it after workID and
// keeping src's extension, and returns the new path.
func CopyImage(dir, workID, src string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating image dir '%s': %w", dir, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("error opening image '%s': %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(dir, workID+strings.ToLower(filepath.Ext(src)))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("error creating image '%s': %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("error copying image to '%s': %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("error closing image '%s': %w", dst, err)
	}
	return dst, nil
}

// SortedIDs returns the work ids of m in order.
func SortedIDs(m map[string]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
