package docxfill

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Data is the JSON-compatible payload placeholders resolve against.
type Data map[string]any

// ParseData decodes a JSON object payload.
func ParseData(raw []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return d, nil
}

// Resolve looks up a dotted path. The full path is tried as a literal
// top-level key first — payloads produced by form pipelines often carry
// flat keys like "input.name" — and only then split on '.' and descended
// through nested mappings. The second return is false when any segment is
// missing or a segment indexes into a non-mapping.
func (d Data) Resolve(path string) (any, bool) {
	if v, ok := d[path]; ok {
		return v, true
	}
	segments := strings.Split(path, ".")
	var cur any = map[string]any(d)
	for _, seg := range segments {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Data:
		return m, true
	default:
		return nil, false
	}
}

// formatScalar renders a scalar payload value as document text. JSON
// numbers arrive as float64; integral values print without a decimal
// point.
func formatScalar(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		if vv == float64(int64(vv)) {
			return fmt.Sprintf("%d", int64(vv))
		}
		return fmt.Sprintf("%v", vv)
	case bool:
		if vv {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", vv)
	}
}
