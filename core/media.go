package core

import "io"

// MediaFile is an open stored media resource supporting range reads.
type MediaFile interface {
	io.ReadSeeker
	io.Closer
}

// MediaStore is the media boundary: binary uploads stored under an opaque
// locator, with range-capable reads and delete-by-locator.
type MediaStore interface {
	// Save stores the upload and returns its locator. The original filename
	// only contributes its extension.
	Save(filename string, src io.Reader) (locator string, err error)
	Open(locator string) (f MediaFile, size int64, err error)
	Remove(locator string) error
}
