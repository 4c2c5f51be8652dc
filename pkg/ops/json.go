package ops

import (
	"encoding/json"
	"fmt"
	"maps"
)

// record is the stored form of the known operations.
type record struct {
	Key     Key      `json:"key"`
	Degrees *float64 `json:"degrees,omitempty"`
	Box     *Box     `json:"box,omitempty"`
	Level   *float64 `json:"level,omitempty"`
	Cutoff  *float64 `json:"cutoff,omitempty"`
}

// Marshal encodes op as a {"key": ..., params...} object.
func Marshal(op Operation) ([]byte, error) {
	switch o := op.(type) {
	case Rotate:
		return json.Marshal(record{Key: KeyRotate, Degrees: &o.Degrees})
	case Crop:
		return json.Marshal(record{Key: KeyCrop, Box: &o.Box})
	case Brightness:
		return json.Marshal(record{Key: KeyBrightness, Level: &o.Level})
	case Contrast:
		return json.Marshal(record{Key: KeyContrast, Level: &o.Level})
	case Saturation:
		return json.Marshal(record{Key: KeySaturation, Level: &o.Level})
	case Autocontrast:
		return json.Marshal(record{Key: KeyAutocontrast, Cutoff: o.Cutoff})
	case Unknown:
		m := maps.Clone(o.Params)
		if m == nil {
			m = map[string]any{}
		}
		m["key"] = o.Name
		return json.Marshal(m)
	}
	return nil, fmt.Errorf("%T: %w", op, ErrUnknownOperation)
}

// Unmarshal decodes one stored operation. Records with an unrecognized key
// decode to Unknown.
func Unmarshal(b []byte) (Operation, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	name, ok := raw["key"].(string)
	if !ok {
		return nil, fmt.Errorf("operation has no key: %s", b)
	}

	var r record
	switch Key(name) {
	case KeyRotate, KeyCrop, KeyBrightness, KeyContrast, KeySaturation, KeyAutocontrast:
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		delete(raw, "key")
		return Unknown{Name: name, Params: raw}, nil
	}

	switch r.Key {
	case KeyRotate:
		if r.Degrees == nil {
			return nil, fmt.Errorf("rotate: missing degrees")
		}
		return Rotate{Degrees: *r.Degrees}, nil
	case KeyCrop:
		if r.Box == nil {
			return nil, fmt.Errorf("crop: missing box")
		}
		if err := r.Box.Validate(); err != nil {
			return nil, fmt.Errorf("crop: %w", err)
		}
		return Crop{Box: *r.Box}, nil
	case KeyAutocontrast:
		return Autocontrast{Cutoff: r.Cutoff}, nil
	}

	if r.Level == nil {
		return nil, fmt.Errorf("%s: missing level", r.Key)
	}
	switch r.Key {
	case KeyBrightness:
		return Brightness{Level: *r.Level}, nil
	case KeyContrast:
		return Contrast{Level: *r.Level}, nil
	default:
		return Saturation{Level: *r.Level}, nil
	}
}

// MarshalJSON encodes the pipeline as a list of operation records.
func (p *Pipeline) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(p.ops))
	for i, op := range p.ops {
		b, err := Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the pipeline with a decoded list of records.
func (p *Pipeline) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	np := NewPipeline()
	for i, r := range raw {
		op, err := Unmarshal(r)
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		np.push(op)
	}
	p.ops = np.ops
	return nil
}
