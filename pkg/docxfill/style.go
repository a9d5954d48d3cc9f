package docxfill

import "strings"

// Style is a maybe-set styling record for a table cell or row. Empty
// strings and nil pointers mean "not set here"; unset attributes fall
// through to the next precedence tier when merging.
type Style struct {
	Background string
	Color      string
	Bold       *bool
	Italic     *bool
}

// IsZero reports whether no attribute is set.
func (s *Style) IsZero() bool {
	return s == nil || (s.Background == "" && s.Color == "" && s.Bold == nil && s.Italic == nil)
}

// MergeStyles resolves the effective style for one cell: per attribute the
// cell-level value wins if set, else the row-level value, else the
// attribute stays unset and the document default applies. Pure function,
// neither input is mutated.
func MergeStyles(cell, row *Style) Style {
	var out Style
	for _, tier := range []*Style{cell, row} {
		if tier == nil {
			continue
		}
		if out.Background == "" {
			out.Background = tier.Background
		}
		if out.Color == "" {
			out.Color = tier.Color
		}
		if out.Bold == nil {
			out.Bold = tier.Bold
		}
		if out.Italic == nil {
			out.Italic = tier.Italic
		}
	}
	return out
}

// ParseStyle builds a Style from a JSON style object. Unknown keys are
// ignored. Returns nil for a nil or empty map.
func ParseStyle(m map[string]any) *Style {
	if len(m) == 0 {
		return nil
	}
	var s Style
	if v, ok := m["background"].(string); ok {
		s.Background = normalizeColor(v)
	}
	if v, ok := m["color"].(string); ok {
		s.Color = normalizeColor(v)
	}
	if v, ok := m["bold"].(bool); ok {
		b := v
		s.Bold = &b
	}
	if v, ok := m["italic"].(bool); ok {
		b := v
		s.Italic = &b
	}
	if s.IsZero() {
		return nil
	}
	return &s
}

// normalizeColor uppercases a hex RRGGBB color and strips a leading '#'.
// The OOXML attributes take bare hex digits.
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	c = strings.TrimPrefix(c, "#")
	return strings.ToUpper(c)
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
