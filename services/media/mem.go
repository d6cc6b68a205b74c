package mediasvc

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// MemStore keeps media in memory; it backs the tests.
type MemStore struct {
	mu    sync.Mutex
	files map[string][]byte

	// FailRemove makes Remove fail; lets tests exercise delete rollback.
	FailRemove bool
	Removed    []string
}

var _ core.MediaStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func (s *MemStore) Save(filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}
	data, err := ioutil.ReadAll(src)
	if err != nil {
		return "", err
	}
	locator := uuid.New().String() + ext

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[locator] = data
	return locator, nil
}

func (s *MemStore) Open(locator string) (core.MediaFile, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[locator]
	if !ok {
		return nil, 0, errors.New("media file not found")
	}
	return memFile{bytes.NewReader(data)}, int64(len(data)), nil
}

// Len reports how many files are currently stored.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *MemStore) Remove(locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRemove {
		return errors.New("media release failed")
	}
	if _, ok := s.files[locator]; !ok {
		return errors.New("media file not found")
	}
	delete(s.files, locator)
	s.Removed = append(s.Removed, locator)
	return nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }
