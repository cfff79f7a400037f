package models

import (
	"io"
	"mime"
	"os"
	"path/filepath"
)

// FileRef describes a local file selected for upload. Open re-opens the
// source each time it is called: the generation step re-sends the original
// file after the upload has already consumed one reader.
type FileRef struct {
	Name string
	Size int64
	MIME string
	Open func() (io.ReadCloser, error)
}

// FileFromPath builds a FileRef for a file on disk. The MIME type is
// derived from the extension; unknown extensions yield an empty MIME,
// which the upload workflow treats as non-text.
func FileFromPath(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, err
	}
	return FileRef{
		Name: filepath.Base(path),
		Size: info.Size(),
		MIME: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}
