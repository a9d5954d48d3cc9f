package docx

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunProperties(t *testing.T) {
	r := NewRun("x", RunProps{Bold: true, Color: "FF0000"})
	rPr := RunProperties(r)
	require.NotNil(t, rPr)
	assert.NotNil(t, rPr.SelectElement("w:b"))
	assert.Nil(t, rPr.SelectElement("w:i"))

	color := rPr.SelectElement("w:color")
	require.NotNil(t, color)
	assert.Equal(t, "FF0000", color.SelectAttrValue("w:val", ""))

	plain := NewRun("x", RunProps{})
	assert.Nil(t, RunProperties(plain), "no w:rPr when nothing is set")
}

func TestNewTextPreservesSpace(t *testing.T) {
	padded := NewRun(" padded ", RunProps{}).SelectElement("w:t")
	require.NotNil(t, padded)
	assert.Equal(t, "preserve", padded.SelectAttrValue("xml:space", ""))

	trimmed := NewRun("plain", RunProps{}).SelectElement("w:t")
	require.NotNil(t, trimmed)
	assert.Empty(t, trimmed.SelectAttrValue("xml:space", ""))
}

func TestNewStyledRunLayersOverBase(t *testing.T) {
	base := etree.NewElement("w:rPr")
	base.CreateElement("w:i")

	r := NewStyledRun("x", base, RunProps{Bold: true})
	rPr := RunProperties(r)
	require.NotNil(t, rPr)
	assert.NotNil(t, rPr.SelectElement("w:i"), "base properties are kept")
	assert.NotNil(t, rPr.SelectElement("w:b"), "layered properties are added")
	assert.Nil(t, base.SelectElement("w:b"), "the base element itself is untouched")
}

func TestNewStyledRunNilBase(t *testing.T) {
	assert.Nil(t, RunProperties(NewStyledRun("x", nil, RunProps{})))

	r := NewStyledRun("x", nil, RunProps{Underline: true})
	u := RunProperties(r).SelectElement("w:u")
	require.NotNil(t, u)
	assert.Equal(t, "single", u.SelectAttrValue("w:val", ""))
}

func TestNewTableScaffold(t *testing.T) {
	tbl := NewTable(3)
	assert.Len(t, tbl.FindElements("w:tblGrid/w:gridCol"), 3)

	borders := tbl.FindElements("w:tblPr/w:tblBorders/*")
	require.Len(t, borders, 6)
	for _, b := range borders {
		assert.Equal(t, "single", b.SelectAttrValue("w:val", ""))
	}
}

func TestNewTableCellShading(t *testing.T) {
	tbl := NewTable(1)
	tr := NewTableRow(tbl)

	shaded := NewTableCell(tr, "D9D9D9")
	assert.Equal(t, "D9D9D9", CellShading(shaded))

	plain := NewTableCell(tr, "")
	assert.Nil(t, plain.SelectElement("w:tcPr"))
	assert.Empty(t, CellShading(plain))
}

func TestReplaceElementKeepsPosition(t *testing.T) {
	body := etree.NewElement("w:body")
	body.CreateElement("w:p").CreateAttr("id", "first")
	target := body.CreateElement("w:p")
	body.CreateElement("w:p").CreateAttr("id", "last")

	require.True(t, ReplaceElement(target, NewTable(1)))

	children := body.ChildElements()
	require.Len(t, children, 3)
	assert.Equal(t, "first", children[0].SelectAttrValue("id", ""))
	assert.Equal(t, "tbl", children[1].Tag)
	assert.Equal(t, "last", children[2].SelectAttrValue("id", ""))

	assert.False(t, ReplaceElement(etree.NewElement("w:p"), NewParagraph()),
		"detached elements cannot be replaced")
}

func TestReplaceRunExpandsInPlace(t *testing.T) {
	p := NewParagraph()
	p.AddChild(NewRun("before", RunProps{}))
	target := NewRun("target", RunProps{})
	p.AddChild(target)
	p.AddChild(NewRun("after", RunProps{}))

	require.True(t, ReplaceRun(target, []*etree.Element{
		NewRun("one", RunProps{}),
		NewBreakRun(),
		NewRun("two", RunProps{}),
	}))

	runs := p.SelectElements("w:r")
	require.Len(t, runs, 5)
	assert.Equal(t, "before", runs[0].SelectElement("w:t").Text())
	assert.Equal(t, "one", runs[1].SelectElement("w:t").Text())
	assert.NotNil(t, runs[2].SelectElement("w:br"))
	assert.Equal(t, "two", runs[3].SelectElement("w:t").Text())
	assert.Equal(t, "after", runs[4].SelectElement("w:t").Text())
}
