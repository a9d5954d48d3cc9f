package docxfill

// CellSpec is one table cell before rendering: content (string content may
// carry inline markup) plus an optional cell-level style.
type CellSpec struct {
	Content any
	Style   *Style
}

// RowSpec is one table row: its cells and an optional row-level style that
// cell styles override attribute by attribute.
type RowSpec struct {
	Cells []CellSpec
	Style *Style
}

// TableSpec is the normalized table description every input shape reduces
// to before rendering.
type TableSpec struct {
	Rows []RowSpec
}

// ColumnCount is the widest row; shorter rows are padded to it when
// rendering.
func (t *TableSpec) ColumnCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

// IsTableValue reports whether a resolved payload value triggers table
// synthesis instead of text substitution.
func IsTableValue(v any) bool {
	switch vv := v.(type) {
	case []any:
		return true
	case string:
		return HasHTMLTable(vv)
	default:
		return false
	}
}

// TableSpecFromValue normalizes an array-shaped payload value or an HTML
// table string into a TableSpec. Accepted shapes:
//
//   - array of arrays: each inner array is a row of scalar cells
//   - array of objects: each object has "cells" plus optional "style"
//     (row level) and "cell_styles" (per cell); a cell entry may itself be
//     an object with "content" and "style"
//   - array of scalars: a one-column table
//   - a string containing an HTML <table>
func TableSpecFromValue(v any) (*TableSpec, error) {
	switch vv := v.(type) {
	case string:
		if !HasHTMLTable(vv) {
			return nil, &TableError{Reason: "string value is not an HTML table"}
		}
		return ParseHTMLTable(vv)
	case []any:
		spec := &TableSpec{Rows: make([]RowSpec, 0, len(vv))}
		var errs MultiError
		for i, rowVal := range vv {
			row, err := rowSpecFromValue(rowVal)
			if err != nil {
				errs.Add(&TableError{Reason: err.Error(), Row: i + 1})
				continue
			}
			spec.Rows = append(spec.Rows, row)
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return spec, nil
	default:
		return nil, &TableError{Reason: "value is not array-shaped"}
	}
}

func rowSpecFromValue(v any) (RowSpec, error) {
	switch rv := v.(type) {
	case []any:
		row := RowSpec{Cells: make([]CellSpec, 0, len(rv))}
		for _, cellVal := range rv {
			row.Cells = append(row.Cells, cellSpecFromValue(cellVal, nil))
		}
		return row, nil
	case map[string]any:
		cellsVal, ok := rv["cells"].([]any)
		if !ok {
			return RowSpec{}, errMissingCells
		}
		row := RowSpec{Cells: make([]CellSpec, 0, len(cellsVal))}
		if styleMap, ok := rv["style"].(map[string]any); ok {
			row.Style = ParseStyle(styleMap)
		}
		cellStyles, _ := rv["cell_styles"].([]any)
		for i, cellVal := range cellsVal {
			var fallback *Style
			if i < len(cellStyles) {
				if styleMap, ok := cellStyles[i].(map[string]any); ok {
					fallback = ParseStyle(styleMap)
				}
			}
			row.Cells = append(row.Cells, cellSpecFromValue(cellVal, fallback))
		}
		return row, nil
	default:
		// A bare scalar row: one cell. Ragged shapes are padded later, so
		// mixing scalar rows with array rows is tolerated.
		return RowSpec{Cells: []CellSpec{cellSpecFromValue(v, nil)}}, nil
	}
}

// cellSpecFromValue builds one cell. A {content, style} object carries its
// own style, which outranks the row's cell_styles entry for that index.
func cellSpecFromValue(v any, fallback *Style) CellSpec {
	if m, ok := v.(map[string]any); ok {
		if content, ok := m["content"]; ok {
			cell := CellSpec{Content: content, Style: fallback}
			if styleMap, ok := m["style"].(map[string]any); ok {
				if s := ParseStyle(styleMap); s != nil {
					cell.Style = s
				}
			}
			return cell
		}
	}
	return CellSpec{Content: v, Style: fallback}
}
