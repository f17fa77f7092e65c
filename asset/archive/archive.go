package archive

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/asset"
	"github.com/Jianli-Huang/GAMES101/log"
)

const (
	dataFile = "bvh.bin"
)

// ErrMissingData is returned when an archive does not contain a BVH entry.
var ErrMissingData = errors.New("archive: missing " + dataFile + " entry")

var logger = log.New("archive")

// Write a gob-encoded BVH to a zip archive. The concrete object types
// stored in the tree must be registered with gob.Register.
func Write(filename string, bvh *accel.BVHAccel) error {
	logger.Noticef(`writing compiled BVH to "%s"`, filename)
	start := time.Now()

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = Encode(f, bvh); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	logger.Noticef("wrote archive in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Encode writes a zip archive containing bvh to w.
func Encode(w io.Writer, bvh *accel.BVHAccel) error {
	zw := zip.NewWriter(w)
	entry, err := zw.Create(dataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(entry).Encode(bvh); err != nil {
		return fmt.Errorf("archive: failed to encode %s: %w", dataFile, err)
	}
	return zw.Close()
}

// Read a BVH from a zip archive resource. Unknown archive entries are
// skipped.
func Read(res *asset.Resource) (*accel.BVHAccel, error) {
	logger.Noticef(`loading compiled BVH from "%s"`, res.Path())
	start := time.Now()

	// zip needs an io.ReaderAt; resources may be remote streams so the
	// archive is buffered in memory.
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: %s: %w", res.Path(), err)
	}

	var bvh *accel.BVHAccel
	for _, f := range zr.File {
		if f.Name != dataFile {
			logger.Warningf("unknown file %s in archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		bvh = &accel.BVHAccel{}
		err = gob.NewDecoder(rc).Decode(bvh)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive: failed to load %s: %w", f.Name, err)
		}
	}

	if bvh == nil {
		return nil, ErrMissingData
	}

	logger.Noticef("loaded BVH with %d objects in %d ms", bvh.Len(), time.Since(start).Nanoseconds()/1e6)
	return bvh, nil
}
