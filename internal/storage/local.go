// Package storage keeps uploaded media on local disk so the messaging
// provider can fetch it back over HTTP.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned for names that sanitize to nothing or escape the upload dir.
var ErrInvalidName = errors.New("invalid file name")

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file too large")

// StoredFile describes a saved upload.
type StoredFile struct {
	Key       string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// LocalStore writes uploads below a single directory.
type LocalStore struct {
	dir     string
	maxSize int64
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxSize: maxSize}, nil
}

// Dir is the directory files are stored in.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores r under a sanitized, collision-free key.
func (s *LocalStore) Save(originalName string, r io.Reader) (*StoredFile, error) {
	clean := SanitizeFilename(originalName)
	if clean == "" {
		return nil, ErrInvalidName
	}
	key := strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "_" + clean

	f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", key, err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	// Keep the first bytes for content sniffing while copying.
	head := &headBuffer{limit: 512}
	written, copyErr := io.Copy(f, io.TeeReader(src, head))
	closeErr := f.Close()
	if copyErr == nil && s.maxSize > 0 && written > s.maxSize {
		copyErr = ErrTooLarge
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(filepath.Join(s.dir, key))
		if copyErr != nil {
			return nil, copyErr
		}
		return nil, closeErr
	}

	return &StoredFile{
		Key:       key,
		FileName:  clean,
		MimeType:  http.DetectContentType(head.buf),
		SizeBytes: written,
	}, nil
}

// Path resolves a stored key to its location, refusing anything that is not
// a plain file name inside the upload directory.
func (s *LocalStore) Path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, key), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStore) Remove(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SanitizeFilename keeps ASCII letters, digits, '.', '_' and '-', turns
// whitespace into '_', drops any directory part and leading dots.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

type headBuffer struct {
	buf   []byte
	limit int
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if room := h.limit - len(h.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		h.buf = append(h.buf, p[:room]...)
	}
	return len(p), nil
}
