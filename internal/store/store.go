//go:build darwin || linux

// Package store keeps a screen in a single encrypted file guarded by an
// advisory lock, so two editors never work on the same file at once.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/csheth/voidmap/internal/outline"
	"github.com/csheth/voidmap/internal/vault"
)

// ErrLocked means another process holds the store's lock.
var ErrLocked = errors.New("store: locked by another process")

// Store is an open, locked store file. It is not safe for concurrent use.
type Store struct {
	path string
	file *os.File

	// digest of the plaintext last loaded or written, keyed with the
	// hint's key; valid only when hasDigest is set.
	digest    [32]byte
	hasDigest bool
}

// Open creates path (and its directory) if needed and takes an exclusive,
// non-blocking lock on it. The lock lives until Close.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Store{path: path, file: file}, nil
}

// Path is the file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decrypts the whole file. An empty file is an empty screen.
// The returned screen records the path and hint it was loaded with.
func (s *Store) Load(hint string) (*outline.Screen, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	blob, err := io.ReadAll(s.file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	screen := outline.NewScreen()
	if len(blob) > 0 {
		key, err := vault.DeriveKey(hint)
		if err != nil {
			return nil, err
		}
		defer key.Zero()
		plaintext, err := key.Open(blob)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		screen, err = Decode(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		s.digest, s.hasDigest = key.Digest(plaintext), true
	}
	screen.WorkPath = s.path
	screen.KeyHint = hint
	return screen, nil
}

// Save encrypts screen under hint and rewrites the file in place. It
// reports whether anything was written: a screen that encodes exactly as
// the last load or save left it is skipped.
func (s *Store) Save(hint string, screen *outline.Screen) (bool, error) {
	plaintext, err := Encode(screen)
	if err != nil {
		return false, err
	}
	key, err := vault.DeriveKey(hint)
	if err != nil {
		return false, err
	}
	defer key.Zero()

	digest := key.Digest(plaintext)
	if s.hasDigest && digest == s.digest {
		return false, nil
	}
	blob, err := key.Seal(plaintext)
	if err != nil {
		return false, err
	}
	if err := rewrite(s.file, blob); err != nil {
		return false, fmt.Errorf("%s: %w", s.path, err)
	}
	s.digest, s.hasDigest = digest, true
	return true, nil
}

// blobFile is the part of *os.File that rewrite needs.
type blobFile interface {
	WriteAt(p []byte, off int64) (int, error)
	Truncate(size int64) error
	Sync() error
}

// rewrite replaces the file's contents with blob. The new bytes land before
// the file is shrunk, so a failed write never leaves an empty store.
func rewrite(f blobFile, blob []byte) error {
	if _, err := f.WriteAt(blob, 0); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if err := f.Truncate(int64(len(blob))); err != nil {
		return fmt.Errorf("truncating: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing: %w", err)
	}
	return nil
}

// Close releases the lock and the file.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	unlockErr := unix.Flock(int(s.file.Fd()), unix.LOCK_UN)
	closeErr := s.file.Close()
	s.file = nil
	if unlockErr != nil {
		return fmt.Errorf("unlocking %s: %w", s.path, unlockErr)
	}
	return closeErr
}
