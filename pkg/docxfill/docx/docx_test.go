package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func zipBytes(t *testing.T, parts map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		entry, err := zw.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(parts[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func minimalPackage(t *testing.T, extra map[string]string) *Document {
	t.Helper()
	parts := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="` + testNS + `"><w:body>` +
			`<w:p><w:r><w:t>hello</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"word/media/blob.bin": "\x00\x01\x02 opaque",
	}
	order := []string{"word/document.xml", "word/media/blob.bin"}
	for name, content := range extra {
		parts[name] = content
		order = append(order, name)
	}
	content := zipBytes(t, parts, order)
	doc, err := Read(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	return doc
}

func TestReadRejectsNonZip(t *testing.T) {
	content := []byte("this is not a zip archive")
	_, err := Read(bytes.NewReader(content), int64(len(content)))
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}

func TestReadRequiresMainPart(t *testing.T) {
	content := zipBytes(t, map[string]string{"word/other.xml": "<x/>"}, []string{"word/other.xml"})
	_, err := Read(bytes.NewReader(content), int64(len(content)))
	assert.ErrorIs(t, err, ErrNotDocx)
}

func TestReadRejectsMalformedMainPart(t *testing.T) {
	content := zipBytes(t, map[string]string{"word/document.xml": "<w:document"},
		[]string{"word/document.xml"})
	_, err := Read(bytes.NewReader(content), int64(len(content)))
	require.Error(t, err)

	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "parse", de.Operation)
	assert.Equal(t, "word/document.xml", de.Path)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(t.TempDir() + "/absent.docx")
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "open", de.Operation)
}

func TestBodyAndParagraphs(t *testing.T) {
	doc := minimalPackage(t, nil)
	body := doc.Body()
	require.NotNil(t, body)

	paras := Paragraphs(body)
	require.Len(t, paras, 1)
	assert.Equal(t, "hello", ParagraphText(paras[0]))
}

func TestHeadersFootersInPartOrder(t *testing.T) {
	part := func(root, text string) string {
		return `<w:` + root + ` xmlns:w="` + testNS + `">` +
			`<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:` + root + `>`
	}
	doc := minimalPackage(t, map[string]string{
		"word/header2.xml": part("hdr", "second"),
		"word/header1.xml": part("hdr", "first"),
		"word/footer1.xml": part("ftr", "foot"),
	})

	headers := doc.Headers()
	require.Len(t, headers, 2)
	assert.Equal(t, "first", ParagraphText(headers[0].FindElement("//w:p")))
	assert.Equal(t, "second", ParagraphText(headers[1].FindElement("//w:p")))

	require.Len(t, doc.Footers(), 1)
}

func TestEditablePartsMainFirst(t *testing.T) {
	part := func(root string) string {
		return `<w:` + root + ` xmlns:w="` + testNS + `"/>`
	}
	doc := minimalPackage(t, map[string]string{
		"word/header1.xml": part("hdr"),
		"word/footer1.xml": part("ftr"),
	})

	var names []string
	for _, p := range doc.EditableParts() {
		require.NotNil(t, p.Tree)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"word/document.xml", "word/footer1.xml", "word/header1.xml"}, names)
}

func TestWriteToRoundTrip(t *testing.T) {
	doc := minimalPackage(t, nil)
	Paragraphs(doc.Body())[0].FindElement(".//w:t").SetText("changed")

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	reread, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, "changed", ParagraphText(Paragraphs(reread.Body())[0]))

	blob, ok := reread.Part("word/media/blob.bin")
	require.True(t, ok)
	assert.Equal(t, []byte("\x00\x01\x02 opaque"), blob, "opaque parts survive byte for byte")

	assert.Equal(t, doc.PartNames(), reread.PartNames())
}

func TestSaveAndOpen(t *testing.T) {
	path := t.TempDir() + "/out.docx"
	require.NoError(t, minimalPackage(t, nil).Save(path))

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", ParagraphText(Paragraphs(doc.Body())[0]))
}
