package meta

import "strings"

// Orientation returns the clockwise rotation, in degrees, that the Orientation
// field asks a viewer to apply. Mirrored orientations report only their
// rotation component.
func (m Metadata) Orientation() int {
	v, ok := m.Lookup("Orientation")
	if !ok {
		return 0
	}

	if n, ok := AsNumber(v); ok {
		switch int(n) {
		case 3:
			return 180
		case 6, 7:
			return 90
		case 5, 8:
			return 270
		}
		return 0
	}

	s := strings.ToLower(AsText(v))
	switch {
	case strings.Contains(s, "rotate 90 cw"):
		return 90
	case strings.Contains(s, "rotate 180"):
		return 180
	case strings.Contains(s, "rotate 270 cw"):
		return 270
	}
	return 0
}
