// Package docx reads and writes DOCX packages and exposes the XML parts the
// fill engine mutates as etree document trees.
//
// A DOCX file is a zip archive of parts. Only word/document.xml and the
// header/footer parts are parsed; every other part is carried through as
// opaque bytes so a round trip does not disturb styles, images, or
// relationships.
package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/beevik/etree"
)

const mainPart = "word/document.xml"

var headerFooterRx = regexp.MustCompile(`^word/(header|footer)\d*\.xml$`)

// Document is an open DOCX package. The zip parts are held in memory;
// parsed parts are mutated in place through their etree trees and
// reserialized on save.
type Document struct {
	parts map[string][]byte
	order []string
	trees map[string]*etree.Document
}

// Open reads a DOCX file from disk.
func Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Operation: "open", Path: path, Cause: err}
	}
	doc, err := Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if de, ok := err.(*DocumentError); ok && de.Path == "" {
			de.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Read parses a DOCX package from an io.ReaderAt.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &DocumentError{Operation: "read", Cause: err}
	}

	d := &Document{
		parts: make(map[string][]byte, len(zr.File)),
		trees: make(map[string]*etree.Document),
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &DocumentError{Operation: "read", Path: f.Name, Cause: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &DocumentError{Operation: "read", Path: f.Name, Cause: err}
		}
		d.parts[f.Name] = content
		d.order = append(d.order, f.Name)
	}

	if _, ok := d.parts[mainPart]; !ok {
		return nil, &DocumentError{Operation: "read", Cause: ErrNotDocx}
	}

	for name, content := range d.parts {
		if name != mainPart && !headerFooterRx.MatchString(name) {
			continue
		}
		tree := etree.NewDocument()
		tree.WriteSettings = etree.WriteSettings{
			CanonicalAttrVal: true,
			CanonicalText:    true,
			CanonicalEndTags: true,
		}
		if err := tree.ReadFromBytes(content); err != nil {
			return nil, &DocumentError{Operation: "parse", Path: name, Cause: err}
		}
		d.trees[name] = tree
	}

	return d, nil
}

// Main returns the tree for word/document.xml.
func (d *Document) Main() *etree.Document {
	return d.trees[mainPart]
}

// Body returns the w:body element of the main part, or nil if the document
// has no body.
func (d *Document) Body() *etree.Element {
	return d.Main().FindElement("//w:body")
}

// Headers returns the header part trees in part-name order.
func (d *Document) Headers() []*etree.Document {
	return d.partTrees("word/header")
}

// Footers returns the footer part trees in part-name order.
func (d *Document) Footers() []*etree.Document {
	return d.partTrees("word/footer")
}

func (d *Document) partTrees(prefix string) []*etree.Document {
	var names []string
	for name := range d.trees {
		if name != mainPart && len(name) > len(prefix) && name[:len(prefix)] == prefix {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	trees := make([]*etree.Document, 0, len(names))
	for _, name := range names {
		trees = append(trees, d.trees[name])
	}
	return trees
}

// EditablePart pairs a parsed part with its name.
type EditablePart struct {
	Name string
	Tree *etree.Document
}

// EditableParts returns the parsed parts, main part first, then headers
// and footers in part-name order.
func (d *Document) EditableParts() []EditablePart {
	parts := []EditablePart{{Name: mainPart, Tree: d.trees[mainPart]}}
	var names []string
	for name := range d.trees {
		if name != mainPart {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, EditablePart{Name: name, Tree: d.trees[name]})
	}
	return parts
}

// Part returns the raw bytes of a package part.
func (d *Document) Part(name string) ([]byte, bool) {
	content, ok := d.parts[name]
	return content, ok
}

// setPart stores raw part bytes, registering the name on first write.
func (d *Document) setPart(name string, content []byte) {
	if _, ok := d.parts[name]; !ok {
		d.order = append(d.order, name)
	}
	d.parts[name] = content
}

// PartNames lists all part names in archive order.
func (d *Document) PartNames() []string {
	names := make([]string, len(d.order))
	copy(names, d.order)
	return names
}

// WriteTo serializes the package, reserializing every parsed tree and
// copying untouched parts verbatim.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, name := range d.order {
		content := d.parts[name]
		if tree, ok := d.trees[name]; ok {
			serialized, err := tree.WriteToBytes()
			if err != nil {
				zw.Close()
				return cw.n, &DocumentError{Operation: "write", Path: name, Cause: err}
			}
			content = serialized
		}
		entry, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return cw.n, &DocumentError{Operation: "write", Path: name, Cause: err}
		}
		if _, err := entry.Write(content); err != nil {
			zw.Close()
			return cw.n, &DocumentError{Operation: "write", Path: name, Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, &DocumentError{Operation: "write", Cause: err}
	}
	return cw.n, nil
}

// Save writes the package to a file.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &DocumentError{Operation: "save", Path: path, Cause: err}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
