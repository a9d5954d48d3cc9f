package docxfill

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strconv"
	"strings"
)

// EMU conversion factors. OOXML drawing sizes are English Metric Units.
const (
	emuPerCm    = 360000
	emuPerInch  = 914400
	emuPerPoint = 12700
	emuPerPixel = 9525
)

// Inline image reference syntax: [dx-img:payload.path].
var inlineImageRx = regexp.MustCompile(`\[dx-img:([^\]]+)\]`)

// ImageSpec is one decoded image ready for embedding: raw bytes, the
// extension of its media part, and its display size in EMUs.
type ImageSpec struct {
	Data   []byte
	Ext    string
	Width  int64
	Height int64
}

// imageValue is a parsed image payload: one or more images plus the layout
// and paragraph alignment options that apply to the insertion point.
type imageValue struct {
	specs  []ImageSpec
	layout string
	align  string
}

// IsImageValue reports whether a resolved payload value is an image
// specification: an object with "type" of image/images carrying "data"
// (single image) or "list" (several).
func IsImageValue(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	typ, _ := m["type"].(string)
	if typ != "image" && typ != "images" {
		return false
	}
	if _, ok := m["list"]; ok {
		return true
	}
	_, ok = m["data"]
	return ok && typ == "image"
}

// parseImageValue normalizes an image payload object. Options on a list
// object ("width", "height", "format", "alignment") are defaults its
// entries override individually; "layout" selects how list entries flow
// (vertical line breaks or horizontal spacing).
func parseImageValue(v any) (*imageValue, error) {
	m, ok := v.(map[string]any)
	if !ok || !IsImageValue(v) {
		return nil, fmt.Errorf("not an image value")
	}

	out := &imageValue{layout: "vertical", align: "left"}
	if a, ok := m["alignment"].(string); ok {
		switch strings.ToLower(a) {
		case "center", "right":
			out.align = strings.ToLower(a)
		}
	}

	list, isList := m["list"].([]any)
	if !isList {
		spec, err := parseImageSpec(m, m)
		if err != nil {
			return nil, err
		}
		out.specs = []ImageSpec{spec}
		return out, nil
	}

	if l, ok := m["layout"].(string); ok && strings.ToLower(l) == "horizontal" {
		out.layout = "horizontal"
	}
	for i, entry := range list {
		em, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("image list entry %d is not an object", i+1)
		}
		spec, err := parseImageSpec(em, m)
		if err != nil {
			return nil, fmt.Errorf("image list entry %d: %w", i+1, err)
		}
		out.specs = append(out.specs, spec)
	}
	if len(out.specs) == 0 {
		return nil, fmt.Errorf("image list is empty")
	}
	return out, nil
}

// parseImageSpec decodes one image entry, falling back to defaults for
// options the entry does not set itself.
func parseImageSpec(entry, defaults map[string]any) (ImageSpec, error) {
	raw, _ := entry["data"].(string)
	if raw == "" {
		return ImageSpec{}, fmt.Errorf("image has no data")
	}
	data, err := decodeImagePayload(raw)
	if err != nil {
		return ImageSpec{}, err
	}

	spec := ImageSpec{Data: data, Ext: detectImageExt(data, optionString(entry, defaults, "format"))}

	width, hasWidth := parseDimension(option(entry, defaults, "width"))
	height, hasHeight := parseDimension(option(entry, defaults, "height"))
	cx, cy, intrinsic := intrinsicEMU(data)

	switch {
	case hasWidth && hasHeight:
		spec.Width, spec.Height = width, height
	case hasWidth:
		spec.Width = width
		if intrinsic {
			spec.Height = scaleDimension(width, cx, cy)
		} else {
			spec.Height = width
		}
	case hasHeight:
		spec.Height = height
		if intrinsic {
			spec.Width = scaleDimension(height, cy, cx)
		} else {
			spec.Width = height
		}
	case intrinsic:
		spec.Width, spec.Height = cx, cy
	default:
		return ImageSpec{}, fmt.Errorf("cannot determine image size; set width or height")
	}
	return spec, nil
}

func option(entry, defaults map[string]any, key string) any {
	if v, ok := entry[key]; ok {
		return v
	}
	return defaults[key]
}

func optionString(entry, defaults map[string]any, key string) string {
	s, _ := option(entry, defaults, key).(string)
	return s
}

// decodeImagePayload decodes a base64 image string, tolerating a data URI
// prefix ("data:image/png;base64,...") and embedded whitespace.
func decodeImagePayload(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.IndexByte(raw, ','); idx >= 0 {
			raw = raw[idx+1:]
		}
	}
	raw = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, raw)

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return data, nil
}

// detectImageExt sniffs the image format from magic bytes, falling back to
// the payload's format hint and finally to png.
func detectImageExt(data []byte, hint string) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "jpeg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	}
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "jpg" {
		hint = "jpeg"
	}
	switch hint {
	case "png", "jpeg", "gif", "bmp", "tiff", "webp":
		return hint
	}
	return "png"
}

// parseDimension converts a payload dimension to EMUs. Strings carry a
// unit suffix (cm, in, pt, px, emu); a bare number, string or numeric, is
// centimeters. "auto" and unparseable values count as unset.
func parseDimension(v any) (int64, bool) {
	switch d := v.(type) {
	case nil:
		return 0, false
	case float64:
		return int64(d * emuPerCm), true
	case string:
		s := strings.ToLower(strings.TrimSpace(d))
		if s == "" || s == "auto" {
			return 0, false
		}
		factor := float64(emuPerCm)
		switch {
		case strings.HasSuffix(s, "emu"):
			s, factor = s[:len(s)-3], 1
		case strings.HasSuffix(s, "cm"):
			s, factor = s[:len(s)-2], emuPerCm
		case strings.HasSuffix(s, "in"):
			s, factor = s[:len(s)-2], emuPerInch
		case strings.HasSuffix(s, "pt"):
			s, factor = s[:len(s)-2], emuPerPoint
		case strings.HasSuffix(s, "px"):
			s, factor = s[:len(s)-2], emuPerPixel
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return int64(n * factor), true
	default:
		return 0, false
	}
}

// intrinsicEMU reads the image's pixel dimensions (96 DPI assumed). Only
// formats the standard decoders know (png, jpeg, gif) report a size.
func intrinsicEMU(data []byte) (cx, cy int64, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}
	return int64(cfg.Width) * emuPerPixel, int64(cfg.Height) * emuPerPixel, true
}

// scaleDimension derives the missing edge from the given one, preserving
// the intrinsic aspect ratio.
func scaleDimension(given, intrinsicGiven, intrinsicOther int64) int64 {
	if intrinsicGiven <= 0 {
		return given
	}
	return given * intrinsicOther / intrinsicGiven
}
