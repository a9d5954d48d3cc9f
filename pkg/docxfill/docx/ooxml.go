package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// RunProps carries the run-level formatting the fill engine can apply.
// Color is a 6-hex-digit RRGGBB string without the # prefix.
type RunProps struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// Paragraphs returns every w:p under root in document order, including
// paragraphs inside table cells.
func Paragraphs(root *etree.Element) []*etree.Element {
	return root.FindElements("//w:p")
}

// TextElements returns the w:t elements of a paragraph in document order.
func TextElements(p *etree.Element) []*etree.Element {
	return p.FindElements(".//w:t")
}

// ParagraphText concatenates the text of all runs in a paragraph.
func ParagraphText(p *etree.Element) string {
	var b strings.Builder
	for _, t := range TextElements(p) {
		b.WriteString(t.Text())
	}
	return b.String()
}

// NewParagraph creates an empty w:p element.
func NewParagraph() *etree.Element {
	return etree.NewElement("w:p")
}

// NewRun creates a w:r element holding text with the given formatting.
func NewRun(text string, props RunProps) *etree.Element {
	r := etree.NewElement("w:r")
	if rPr := runPropsElement(props); rPr != nil {
		r.AddChild(rPr)
	}
	r.AddChild(newText(text))
	return r
}

// NewBreakRun creates a w:r holding a single line break.
func NewBreakRun() *etree.Element {
	r := etree.NewElement("w:r")
	r.CreateElement("w:br")
	return r
}

// NewStyledRun creates a w:r whose properties start from a copy of rPr
// (which may be nil) with props layered on top. Layering only adds
// attributes, matching the rule that inline markup can enable bold or
// italic over a base style but never disable it.
func NewStyledRun(text string, rPr *etree.Element, props RunProps) *etree.Element {
	r := etree.NewElement("w:r")
	var base *etree.Element
	if rPr != nil {
		base = rPr.Copy()
	}
	if props.Bold || props.Italic || props.Underline || props.Color != "" {
		if base == nil {
			base = etree.NewElement("w:rPr")
		}
		layerRunProps(base, props)
	}
	if base != nil {
		r.AddChild(base)
	}
	r.AddChild(newText(text))
	return r
}

// RunProperties returns the w:rPr child of a run, or nil.
func RunProperties(r *etree.Element) *etree.Element {
	return r.SelectElement("w:rPr")
}

func newText(text string) *etree.Element {
	t := etree.NewElement("w:t")
	if text != strings.TrimSpace(text) {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(text)
	return t
}

func runPropsElement(props RunProps) *etree.Element {
	if !props.Bold && !props.Italic && !props.Underline && props.Color == "" {
		return nil
	}
	rPr := etree.NewElement("w:rPr")
	layerRunProps(rPr, props)
	return rPr
}

func layerRunProps(rPr *etree.Element, props RunProps) {
	if props.Bold && rPr.SelectElement("w:b") == nil {
		rPr.CreateElement("w:b")
	}
	if props.Italic && rPr.SelectElement("w:i") == nil {
		rPr.CreateElement("w:i")
	}
	if props.Underline && rPr.SelectElement("w:u") == nil {
		rPr.CreateElement("w:u").CreateAttr("w:val", "single")
	}
	if props.Color != "" && rPr.SelectElement("w:color") == nil {
		rPr.CreateElement("w:color").CreateAttr("w:val", props.Color)
	}
}

// NewTable creates a w:tbl scaffold with single borders and a grid of the
// given column count.
func NewTable(columns int) *etree.Element {
	tbl := etree.NewElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "0")
	tblW.CreateAttr("w:type", "auto")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + edge)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", "auto")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for i := 0; i < columns; i++ {
		grid.CreateElement("w:gridCol")
	}
	return tbl
}

// NewTableRow appends and returns a w:tr on the table.
func NewTableRow(tbl *etree.Element) *etree.Element {
	return tbl.CreateElement("w:tr")
}

// NewTableCell appends and returns a w:tc on the row. A non-empty fill is
// applied as cell-wide background shading; shading is a cell property in
// the OOXML model, not a run property.
func NewTableCell(tr *etree.Element, fill string) *etree.Element {
	tc := tr.CreateElement("w:tc")
	if fill != "" {
		tcPr := tc.CreateElement("w:tcPr")
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", fill)
	}
	return tc
}

// CellShading returns the w:fill attribute of a cell's shading, or "".
func CellShading(tc *etree.Element) string {
	shd := tc.FindElement("w:tcPr/w:shd")
	if shd == nil {
		return ""
	}
	return shd.SelectAttrValue("w:fill", "")
}

// ReplaceElement swaps old for replacement at the same position under old's
// parent. Reports whether the swap happened.
func ReplaceElement(old, replacement *etree.Element) bool {
	parent := old.Parent()
	if parent == nil {
		return false
	}
	idx := old.Index()
	if idx < 0 {
		return false
	}
	parent.RemoveChildAt(idx)
	parent.InsertChildAt(idx, replacement)
	return true
}

// ReplaceRun swaps a single run for a sequence of runs at the same position
// in the paragraph.
func ReplaceRun(run *etree.Element, replacements []*etree.Element) bool {
	parent := run.Parent()
	if parent == nil {
		return false
	}
	idx := run.Index()
	if idx < 0 {
		return false
	}
	parent.RemoveChildAt(idx)
	for i, r := range replacements {
		parent.InsertChildAt(idx+i, r)
	}
	return true
}
