package docxfill

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docxfill/go-docxfill/pkg/docxfill/docx"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// buildDocx assembles an in-memory package with the given body content and
// optional extra parts, and parses it back through the docx reader.
func buildDocx(t *testing.T, body string, extra map[string]string) *docx.Document {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         relsXML,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="` + wordNS + `"><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range extra {
		parts[name] = content
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		entry, err := zw.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	doc, err := docx.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return doc
}

// paragraph wraps text in a minimal run; extra run properties go in rPr.
func paragraph(rPr, text string) string {
	props := ""
	if rPr != "" {
		props = "<w:rPr>" + rPr + "</w:rPr>"
	}
	return `<w:p><w:r>` + props + `<w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

// bodyText collects the text of the body's direct paragraphs. Paragraphs
// inside tables are deliberately excluded so a synthesized table does not
// show up as body text.
func bodyText(doc *docx.Document) []string {
	var out []string
	for _, p := range doc.Body().SelectElements("w:p") {
		out = append(out, docx.ParagraphText(p))
	}
	return out
}
