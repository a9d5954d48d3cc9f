package docxfill

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HasHTMLTable reports whether a string carries an HTML table. Payload
// values of this form go through structure extraction before rendering.
func HasHTMLTable(s string) bool {
	return strings.Contains(strings.ToLower(s), "<table")
}

// ParseHTMLTable extracts the tr/td/th structure of an HTML table string
// into a TableSpec. Header cells default to bold unless their own style
// says otherwise. Cell inner HTML is kept verbatim so inline markup inside
// cells reaches the markup parser during rendering.
func ParseHTMLTable(s string) (*TableSpec, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, &TableError{Reason: "unparseable HTML table: " + err.Error()}
	}

	spec := &TableSpec{}
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := RowSpec{}
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			inner, err := cell.Html()
			if err != nil {
				inner = cell.Text()
			}
			cs := CellSpec{Content: strings.TrimSpace(inner)}
			if goquery.NodeName(cell) == "th" {
				bold := true
				cs.Style = &Style{Bold: &bold}
			}
			row.Cells = append(row.Cells, cs)
		})
		if len(row.Cells) > 0 {
			spec.Rows = append(spec.Rows, row)
		}
	})

	if len(spec.Rows) == 0 {
		return nil, &TableError{Reason: "HTML table has no rows"}
	}
	return spec, nil
}
