// Package photometa reads capture location and time from image EXIF data.
package photometa

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

// EXIFExtractor reads GPS coordinates and the original capture time from JPEG and TIFF
// files. It implements observation.MetadataExtractor.
type EXIFExtractor struct{}

// Extract returns the coordinates and capture time stored in path. Tags the file does not
// carry are returned as nil; a file without EXIF data is an error.
func (EXIFExtractor) Extract(path string) (lat, lon *float64, taken *time.Time, err error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the photo being attached
	if err != nil {
		return nil, nil, nil, errors.New(err).
			Component("photometa").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, nil, nil, errors.New(err).
			Component("photometa").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	if la, lo, err := x.LatLong(); err == nil && validCoordinates(la, lo) {
		lat, lon = &la, &lo
	}
	if t, err := x.DateTime(); err == nil && !t.IsZero() {
		taken = &t
	}
	return lat, lon, taken, nil
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 && (lat != 0 || lon != 0)
}
