package docxfill

import (
	"github.com/beevik/etree"

	"github.com/docxfill/go-docxfill/pkg/docxfill/docx"
)

// buildTable renders a normalized TableSpec into a w:tbl element ready for
// insertion where the placeholder paragraph was. Every row is rendered at
// the table's column count; missing trailing cells become empty cells.
func buildTable(spec *TableSpec) *etree.Element {
	columns := spec.ColumnCount()
	tbl := docx.NewTable(columns)

	for _, row := range spec.Rows {
		tr := docx.NewTableRow(tbl)
		for i := 0; i < columns; i++ {
			var cell CellSpec
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			renderCell(tr, cell, row.Style)
		}
	}
	return tbl
}

// renderCell writes one cell: effective style resolved from the cell and
// row tiers, background applied as cell shading, content as one or more
// runs. Markup-bearing strings go through the span parser; everything
// else renders as a single run so incidental '<' in data is never
// interpreted.
func renderCell(tr *etree.Element, cell CellSpec, rowStyle *Style) {
	eff := MergeStyles(cell.Style, rowStyle)
	tc := docx.NewTableCell(tr, eff.Background)

	base := docx.RunProps{
		Bold:   boolVal(eff.Bold),
		Italic: boolVal(eff.Italic),
		Color:  eff.Color,
	}

	if text, ok := cell.Content.(string); ok && HasMarkup(text) {
		renderMarkupCell(tc, text, base)
		return
	}

	p := tc.CreateElement("w:p")
	if text := formatScalar(cell.Content); text != "" {
		p.AddChild(docx.NewRun(text, base))
	}
}

// renderMarkupCell emits one run per styled span. Span attributes layer on
// top of the cell style: inline markup can add bold, italic, or underline
// over the cell's base formatting, never remove it. Break spans start a
// new paragraph within the same cell.
func renderMarkupCell(tc *etree.Element, text string, base docx.RunProps) {
	p := tc.CreateElement("w:p")
	for _, span := range ParseMarkup(text) {
		if span.Break {
			p = tc.CreateElement("w:p")
			continue
		}
		props := base
		props.Bold = base.Bold || span.Bold
		props.Italic = base.Italic || span.Italic
		props.Underline = span.Underline
		p.AddChild(docx.NewRun(span.Text, props))
	}
}
