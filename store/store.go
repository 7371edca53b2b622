// Package store keeps unique chunks in a directory, each
// under the blake3 digest string of its contents, so that
// storing the same chunk twice costs nothing.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	b3 "github.com/glycerine/gearcut/hash"
)

var ErrNotFound = errors.New("chunk not found in store")
var ErrCorrupt = errors.New("stored chunk does not match its key")
var ErrBadKey = errors.New("malformed chunk key")

// Store is safe for concurrent use.
type Store struct {
	dir   string
	codec Codec
	comp  *compressors
	dig   *b3.Blake3

	mut    sync.Mutex
	closed bool
}

// Open creates dir if need be. New chunks are written with
// codec; existing objects are read back with whatever codec
// they were written with.
func Open(dir string, codec Codec) (*Store, error) {
	if codec >= codecOutOfBounds {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, codec)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	comp, err := newCompressors()
	if err != nil {
		return nil, err
	}
	return &Store{
		dir:   dir,
		codec: codec,
		comp:  comp,
		dig:   b3.NewBlake3(),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Close() {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.comp.Close()
}

// path shards objects by the first two digest characters
// after the prefix. The digest body is url-safe base64,
// which has no '.', so a '.' there is always a bad key.
func (s *Store) path(key string) (string, error) {
	body, ok := strings.CutPrefix(key, b3.DigestPrefix)
	if !ok || len(body) < 2 || strings.ContainsAny(key, `/\`) || strings.Contains(body, ".") {
		return "", fmt.Errorf("%w: '%v'", ErrBadKey, key)
	}
	return filepath.Join(s.dir, body[:2], key), nil
}

func (s *Store) Has(key string) bool {
	p, err := s.path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Put stores data under its digest. fresh is false when
// the chunk was already present.
func (s *Store) Put(data []byte) (key string, fresh bool, err error) {
	key = s.dig.DigestString(data)
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(p); err == nil {
		return key, false, nil
	}
	obj, err := s.comp.encode(s.codec, data)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", false, err
	}

	// write then rename, so a reader never sees half an object.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return "", false, err
	}
	_, err = tmp.Write(obj)
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp.Name(), p)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", false, err
	}
	return key, true, nil
}

// Get returns the chunk stored under key, checking that
// its digest still matches.
func (s *Store) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	obj, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: '%v'", ErrNotFound, key)
		}
		return nil, err
	}
	data, err := s.comp.decode(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: '%v': %v", ErrCorrupt, key, err)
	}
	if got := s.dig.DigestString(data); got != key {
		return nil, fmt.Errorf("%w: '%v' holds '%v'", ErrCorrupt, key, got)
	}
	return data, nil
}
