package tags

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tstromberg/ljus/pkg/meta"
	"k8s.io/klog/v2"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports a metadata value that could not be read as a number.
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %q: %v", e.Field, meta.AsText(e.Value), e.Err)
	}
	return fmt.Sprintf("parse %s %q", e.Field, meta.AsText(e.Value))
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// kitPatterns strip vendor and generic words from camera model names.
var kitPatterns = func() []*regexp.Regexp {
	var res []*regexp.Regexp
	for _, p := range []string{"canon", "nikon", "kodak", "digital", "camera", "super", "powershot", "ed$", "is$"} {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}()

var (
	floatPrefix   = regexp.MustCompile(`^(\d+)(\.\d+)?`)
	focalPattern  = regexp.MustCompile(`^(\d+)(\.\d+)?\s*mm`)
	leadingDigits = regexp.MustCompile(`^(\d+)`)
)

// A facet derives at most one tag from metadata.
type facet func(meta.Metadata) (string, bool, error)

var facets = []facet{Kit, Aperture, Focus, ISO, Shutter}

// Metadata yields the camera, lens, and exposure tags for md. A facet that
// cannot parse its field yields an error in place of a tag; the remaining
// facets are still evaluated. Missing fields yield nothing.
func Metadata(md meta.Metadata) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if md.Len() == 0 {
			return
		}
		for _, f := range facets {
			t, ok, err := f(md)
			if err != nil {
				if !yield("", err) {
					return
				}
				continue
			}
			if ok && !yield(t, nil) {
				return
			}
		}
	}
}

// MetadataTags collects Metadata into a Set, logging facets that fail to parse.
func MetadataTags(md meta.Metadata) Set {
	s := Set{}
	for t, err := range Metadata(md) {
		if err != nil {
			klog.Warningf("metadata tag: %v", err)
			continue
		}
		s.Add(t)
	}
	return s
}

// Kit returns "kit:<model>" with vendor words removed.
func Kit(md meta.Metadata) (string, bool, error) {
	_, v, ok := md.First("CameraModelName", "Model")
	if !ok {
		return "", false, nil
	}

	model := strings.ToLower(meta.AsText(v))
	for _, re := range kitPatterns {
		model = strings.TrimSpace(re.ReplaceAllString(model, ""))
	}
	if model == "" {
		return "", false, nil
	}
	return "kit:" + model, true, nil
}

// Aperture returns "aperture:f/<n>", with n rounded to one decimal place.
func Aperture(md meta.Metadata) (string, bool, error) {
	v, ok := md.Lookup("FNumber")
	if !ok {
		return "", false, nil
	}

	f, ok := meta.AsNumber(v)
	if !ok {
		s, isText := v.(string)
		if !isText || !floatPrefix.MatchString(s) {
			return "", false, nil
		}
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", false, &ParseError{Field: "FNumber", Value: v, Err: err}
		}
	}

	r := math.RoundToEven(10*f) / 10
	return "aperture:f/" + strconv.FormatFloat(r, 'f', -1, 64), true, nil
}

// Focus returns "focus:<n>mm" from the 35mm-equivalent focal length when known.
func Focus(md meta.Metadata) (string, bool, error) {
	key, v, ok := md.First("FocalLengthIn35mmFormat", "FocalLength")
	if !ok {
		return "", false, nil
	}

	n := 0
	if s, isText := v.(string); isText {
		m := focalPattern.FindStringSubmatch(s)
		if m == nil {
			return "", false, nil
		}
		var err error
		if n, err = strconv.Atoi(m[1]); err != nil {
			return "", false, &ParseError{Field: key, Value: v, Err: err}
		}
	} else {
		f, isNum := meta.AsNumber(v)
		if !isNum {
			return "", false, &ParseError{Field: key, Value: v}
		}
		n = int(f)
	}

	if n <= 0 {
		return "", false, nil
	}
	return fmt.Sprintf("focus:%dmm", Highest(n, 1)), true, nil
}

// ISO returns "iso:<n>", keeping two significant digits above ISO 1000.
func ISO(md meta.Metadata) (string, bool, error) {
	v, ok := md.Lookup("ISO")
	if !ok {
		return "", false, nil
	}

	iso, err := leadingInt("ISO", v)
	if err != nil {
		return "", false, err
	}
	if iso <= 0 {
		return "", false, nil
	}

	digits := 1
	if iso > 1000 {
		digits = 2
	}
	return fmt.Sprintf("iso:%d", Highest(iso, digits)), true, nil
}

// Shutter returns "<n>ms" for the exposure time. Speeds may be seconds as a
// number or decimal text, or a "1/N" fraction.
func Shutter(md meta.Metadata) (string, bool, error) {
	v, ok := md.Lookup("ShutterSpeed")
	if !ok {
		return "", false, nil
	}

	secs, isNum := meta.AsNumber(v)
	ms := 1000 * secs
	if !isNum {
		s, isText := v.(string)
		if !isText {
			return "", false, &ParseError{Field: "ShutterSpeed", Value: v}
		}
		s = strings.TrimSpace(s)
		var err error
		if denom, found := strings.CutPrefix(s, "1/"); found {
			var d float64
			d, err = strconv.ParseFloat(denom, 64)
			if err == nil && d <= 0 {
				err = fmt.Errorf("denominator %v", d)
			}
			ms = 1000 / d
		} else {
			secs, err = strconv.ParseFloat(s, 64)
			ms = 1000 * secs
		}
		if err != nil {
			return "", false, &ParseError{Field: "ShutterSpeed", Value: v, Err: err}
		}
	}

	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms > math.MaxInt32 {
		return "", false, &ParseError{Field: "ShutterSpeed", Value: v, Err: fmt.Errorf("%v ms out of range", ms)}
	}
	if ms <= 0 {
		return "", false, nil
	}
	return fmt.Sprintf("%dms", max(1, Highest(int(ms), 1))), true, nil
}

// Highest rounds n to its most significant digits, half to even. Values with
// no more than digits digits are returned unchanged: Highest(847, 1) == 800.
func Highest(n int, digits int) int {
	if float64(n) < math.Pow10(digits) {
		return n
	}
	shift := math.Pow10(len(strconv.Itoa(n)) - digits)
	return int(shift * math.RoundToEven(float64(n)/shift))
}

// HighestOf is Highest for raw metadata values: numbers, or text that starts
// with digits ("35 mm"). Anything else is a *ParseError.
func HighestOf(v any, digits int) (int, error) {
	n, err := leadingInt("value", v)
	if err != nil {
		return 0, err
	}
	return Highest(n, digits), nil
}

func leadingInt(field string, v any) (int, error) {
	if f, ok := meta.AsNumber(v); ok {
		return int(f), nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, &ParseError{Field: field, Value: v}
	}
	m := leadingDigits.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &ParseError{Field: field, Value: v}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &ParseError{Field: field, Value: v, Err: err}
	}
	return n, nil
}
