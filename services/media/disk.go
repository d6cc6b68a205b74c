// Package mediasvc implements the media boundary: uploaded videos stored
// under opaque locators, read back for range streaming, deleted on release.
package mediasvc

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// ErrUnsupportedType rejects uploads outside the video extension whitelist.
var ErrUnsupportedType = core.NewUnauthorizedError("unsupported video type")

var allowedExts = map[string]bool{
	".mp4": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
}

type diskStore struct {
	root string
}

var _ core.MediaStore = (*diskStore)(nil)

func NewDiskStore(conf *core.Config) (core.MediaStore, error) {
	if err := os.MkdirAll(conf.Media.Root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}
	return &diskStore{root: conf.Media.Root}, nil
}

func (s *diskStore) Save(filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}
	locator := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.root, locator))
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "writing media file")
	}
	return locator, nil
}

func (s *diskStore) Open(locator string) (core.MediaFile, int64, error) {
	// Base strips any path components a crafted locator could smuggle in.
	f, err := os.Open(filepath.Join(s.root, filepath.Base(locator)))
	if err != nil {
		return nil, 0, errors.Wrap(err, "opening media file")
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, errors.Wrap(err, "stating media file")
	}
	return f, info.Size(), nil
}

func (s *diskStore) Remove(locator string) error {
	return errors.Wrap(os.Remove(filepath.Join(s.root, filepath.Base(locator))), "removing media file")
}
