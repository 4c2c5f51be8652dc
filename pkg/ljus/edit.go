package ljus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tstromberg/ljus/pkg/ops"
)

// ParseEdits parses a comma-separated edit list such as
// "rotate=10,crop=0.1:0.1:0.9:0.9,brightness=1.2,autocontrast".
func ParseEdits(s string) ([]ops.Operation, error) {
	var out []ops.Operation
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		op, err := parseEdit(item)
		if err != nil {
			return nil, fmt.Errorf("edit %q: %w", item, err)
		}
		out = append(out, op)
	}
	return out, nil
}

func parseEdit(item string) (ops.Operation, error) {
	key, value, hasValue := strings.Cut(item, "=")

	switch ops.Key(key) {
	case ops.KeyAutocontrast:
		if !hasValue {
			return ops.Autocontrast{}, nil
		}
		c, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		return ops.Autocontrast{Cutoff: &c}, nil
	case ops.KeyCrop:
		parts := strings.Split(value, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("want x1:y1:x2:y2: %w", ops.ErrInvalidBox)
		}
		var b ops.Box
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, err
			}
			b[i] = f
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		return ops.Crop{Box: b}, nil
	}

	if !hasValue {
		return nil, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}

	switch ops.Key(key) {
	case ops.KeyRotate:
		return ops.Rotate{Degrees: f}, nil
	case ops.KeyBrightness:
		return ops.Brightness{Level: f}, nil
	case ops.KeyContrast:
		return ops.Contrast{Level: f}, nil
	case ops.KeySaturation:
		return ops.Saturation{Level: f}, nil
	}
	return nil, ops.ErrUnknownOperation
}
