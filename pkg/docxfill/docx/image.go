package docx

import (
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
)

const (
	imageRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relationshipsNS  = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNS   = "http://schemas.openxmlformats.org/package/2006/content-types"
	contentTypesPart = "[Content_Types].xml"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

var relIDRx = regexp.MustCompile(`^rId(\d+)$`)

// AddImage stores image bytes as a media part, registers the extension's
// content type, and relates the part to basePart (the XML part whose runs
// will embed it). Returns the relationship ID to use as r:embed.
func (d *Document) AddImage(basePart string, data []byte, ext string) (string, error) {
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", &DocumentError{Operation: "image", Cause: fmt.Errorf("unsupported image format %q", ext)}
	}

	name := ""
	for i := 1; ; i++ {
		name = fmt.Sprintf("word/media/image%d.%s", i, ext)
		if _, taken := d.parts[name]; !taken {
			break
		}
	}
	d.setPart(name, data)

	if err := d.registerContentType(ext, contentType); err != nil {
		return "", err
	}

	relsPart := path.Dir(basePart) + "/_rels/" + path.Base(basePart) + ".rels"
	target := name[len(path.Dir(basePart))+1:]
	rid, err := d.addRelationship(relsPart, imageRelType, target)
	if err != nil {
		return "", err
	}
	return rid, nil
}

// registerContentType adds a Default mapping for ext unless one exists.
func (d *Document) registerContentType(ext, contentType string) error {
	tree := etree.NewDocument()
	if raw, ok := d.parts[contentTypesPart]; ok {
		if err := tree.ReadFromBytes(raw); err != nil {
			return &DocumentError{Operation: "image", Path: contentTypesPart, Cause: err}
		}
	} else {
		tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		tree.CreateElement("Types").CreateAttr("xmlns", contentTypesNS)
	}
	root := tree.Root()
	for _, def := range root.SelectElements("Default") {
		if def.SelectAttrValue("Extension", "") == ext {
			return nil
		}
	}
	def := root.CreateElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)

	raw, err := tree.WriteToBytes()
	if err != nil {
		return &DocumentError{Operation: "image", Path: contentTypesPart, Cause: err}
	}
	d.setPart(contentTypesPart, raw)
	return nil
}

// addRelationship appends a relationship to a part's .rels file, creating
// the file when the part has none yet, and returns the new rId.
func (d *Document) addRelationship(relsPart, relType, target string) (string, error) {
	tree := etree.NewDocument()
	if raw, ok := d.parts[relsPart]; ok {
		if err := tree.ReadFromBytes(raw); err != nil {
			return "", &DocumentError{Operation: "image", Path: relsPart, Cause: err}
		}
	} else {
		tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		tree.CreateElement("Relationships").CreateAttr("xmlns", relationshipsNS)
	}
	root := tree.Root()

	max := 0
	for _, rel := range root.SelectElements("Relationship") {
		if m := relIDRx.FindStringSubmatch(rel.SelectAttrValue("Id", "")); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	rid := fmt.Sprintf("rId%d", max+1)

	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", rid)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)

	raw, err := tree.WriteToBytes()
	if err != nil {
		return "", &DocumentError{Operation: "image", Path: relsPart, Cause: err}
	}
	d.setPart(relsPart, raw)
	return rid, nil
}

// NewImageRun creates a w:r holding an inline picture referencing an image
// relationship. cx and cy are the display size in EMUs; id must be unique
// among the part's drawings. Namespaces are declared on the elements that
// use them so the run is valid in any template.
func NewImageRun(rid string, id int, cx, cy int64) *etree.Element {
	name := fmt.Sprintf("Picture %d", id)

	r := etree.NewElement("w:r")
	drawing := r.CreateElement("w:drawing")

	inline := drawing.CreateElement("wp:inline")
	inline.CreateAttr("xmlns:wp", "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing")
	for _, dist := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(dist, "0")
	}

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", strconv.FormatInt(cx, 10))
	extent.CreateAttr("cy", strconv.FormatInt(cy, 10))

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", name)

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", "http://schemas.openxmlformats.org/drawingml/2006/picture")

	pic := graphicData.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", "http://schemas.openxmlformats.org/drawingml/2006/picture")

	nvPicPr := pic.CreateElement("pic:nvPicPr")
	cNvPr := nvPicPr.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nvPicPr.CreateElement("pic:cNvPicPr")

	blipFill := pic.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	blip.CreateAttr("r:embed", rid)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(cx, 10))
	ext.CreateAttr("cy", strconv.FormatInt(cy, 10))
	prstGeom := spPr.CreateElement("a:prstGeom")
	prstGeom.CreateAttr("prst", "rect")
	prstGeom.CreateElement("a:avLst")

	return r
}
