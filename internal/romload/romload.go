// Package romload reads a cartridge or boot ROM image from disk,
// transparently decompressing archive containers. Grounded on the
// teacher's pkg/utils/files.go (LoadFile), stripped of its file-picker
// dialog (host windowing, out of scope) and reduced to the archive
// formats its go.mod actually backs: zip and gzip from the standard
// library, plus bodgit/sevenzip for .7z.
package romload

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"

	"github.com/8bitgo/goboy/internal/corerr"
)

// Load reads filename and, if it's a recognized archive container,
// decompresses the first entry inside it. Plain .gb/.gbc images and
// boot ROM .bin files pass through untouched.
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, corerr.New(corerr.IO, "romload.Load", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, corerr.New(corerr.IO, "romload.Load", err)
	}

	switch filepath.Ext(filename) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, corerr.New(corerr.Load, "romload.Load: gzip", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, corerr.New(corerr.Load, "romload.Load: zip", err)
		}
		if len(zr.File) == 0 {
			return nil, corerr.New(corerr.Load, "romload.Load: zip", fmt.Errorf("empty archive"))
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, corerr.New(corerr.Load, "romload.Load: zip", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	case ".7z":
		zr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, corerr.New(corerr.Load, "romload.Load: 7z", err)
		}
		if len(zr.File) == 0 {
			return nil, corerr.New(corerr.Load, "romload.Load: 7z", fmt.Errorf("empty archive"))
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, corerr.New(corerr.Load, "romload.Load: 7z", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	default:
		return data, nil
	}
}
