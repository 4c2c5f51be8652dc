package meta

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// EXIFDecoder reads embedded EXIF directly, for hosts without exiftool.
// Field names are mapped to the names exiftool would report.
type EXIFDecoder struct{}

// Extract implements Extractor.
func (EXIFDecoder) Extract(path string) (Metadata, error) {
	return DecodeEXIF(path)
}

var exifText = map[exif.FieldName]string{
	exif.Make:              "Make",
	exif.Model:             "Model",
	exif.LensModel:         "LensModel",
	exif.DateTimeOriginal:  "DateTimeOriginal",
	exif.DateTimeDigitized: "CreateDate",
	exif.DateTime:          "ModifyDate",
}

var exifRational = map[exif.FieldName]string{
	exif.FNumber:     "FNumber",
	exif.FocalLength: "FocalLength",
}

var exifInt = map[exif.FieldName]string{
	exif.ISOSpeedRatings:       "ISO",
	exif.FocalLengthIn35mmFilm: "FocalLengthIn35mmFormat",
	exif.Orientation:           "Orientation",
	exif.PixelXDimension:       "ImageWidth",
	exif.PixelYDimension:       "ImageHeight",
}

// DecodeEXIF reads the EXIF block of the file at path.
func DecodeEXIF(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode %q: %w", path, err)
	}

	fields := map[string]any{}
	for name, key := range exifText {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(strings.TrimRight(s, "\x00")); s != "" {
			fields[key] = s
		}
	}

	for name, key := range exifRational {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			continue
		}
		fields[key] = float64(num) / float64(den)
	}

	for name, key := range exifInt {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		n, err := tag.Int(0)
		if err != nil || n <= 0 {
			continue
		}
		fields[key] = n
	}

	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			if num == 1 && den > 1 {
				fields["ShutterSpeed"] = fmt.Sprintf("1/%d", den)
			} else {
				fields["ShutterSpeed"] = float64(num) / float64(den)
			}
		}
	}

	return New(fields), nil
}
