package docxfill

import (
	"html"
	"strings"
)

// Span is one styled segment of a cell or replacement value after inline
// markup resolution. A Break span carries no text and marks an explicit
// line break. Concatenating the Text of non-break spans in order yields
// the visible text with tags stripped.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Break     bool
}

// The recognized tag subset. Anything else is literal text.
var markupTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u":  true,
	"br": true,
	"p":  true,
}

// HasMarkup reports whether s contains a recognized inline markup tag.
// It is a cheap presence check so plain data that merely contains '<' or
// '>' never goes through the parser.
func HasMarkup(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			continue
		}
		if name, _, ok := scanTag(s, i); ok && markupTags[name] {
			return true
		}
	}
	return false
}

// ParseMarkup resolves the inline markup subset into an ordered span
// sequence. It is a single forward pass over the input with one boolean
// of open state per attribute; it never fails, malformed markup degrades
// to literal text or best-effort styling.
//
// Recovery rules:
//   - an opening tag for an attribute that is already open does not nest;
//     the single open level survives until the next matching close
//   - an unmatched closing tag is ignored
//   - attributes still open at end of input keep their formatting for the
//     text already emitted
//   - unrecognized tags and a '<' with no closing '>' are literal text
func ParseMarkup(s string) []Span {
	var (
		spans      []Span
		buf        strings.Builder
		bold       bool
		italic     bool
		underline  bool
		hadContent bool
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		text := html.UnescapeString(buf.String())
		buf.Reset()
		hadContent = true
		// Coalesce with the previous span when the styling is identical,
		// so style-neutral tag boundaries do not fragment the text.
		if n := len(spans); n > 0 {
			last := &spans[n-1]
			if !last.Break && last.Bold == bold && last.Italic == italic && last.Underline == underline {
				last.Text += text
				return
			}
		}
		spans = append(spans, Span{Text: text, Bold: bold, Italic: italic, Underline: underline})
	}

	emitBreak := func() {
		flush()
		spans = append(spans, Span{Break: true})
		hadContent = true
	}

	for i := 0; i < len(s); {
		if s[i] != '<' {
			buf.WriteByte(s[i])
			i++
			continue
		}

		name, end, ok := scanTag(s, i)
		if !ok || !markupTags[name] {
			// Not a recognized tag: keep the raw character(s) as text.
			buf.WriteByte(s[i])
			i++
			continue
		}
		closing := s[i+1] == '/'
		raw := s[i : end+1]
		i = end + 1

		switch name {
		case "b", "strong":
			flush()
			bold = !closing
		case "i", "em":
			flush()
			italic = !closing
		case "u":
			flush()
			underline = !closing
		case "br":
			if closing {
				// "</br>" is not a thing; leave it alone.
				buf.WriteString(raw)
				continue
			}
			emitBreak()
		case "p":
			if closing {
				flush()
				continue
			}
			// Paragraph boundary: a break before the paragraph's content,
			// except for the very first paragraph.
			if hadContent || buf.Len() > 0 {
				emitBreak()
			} else {
				flush()
			}
		}
	}

	flush()
	return spans
}

// scanTag inspects a possible tag starting at s[start] (which must be '<').
// It returns the lowercased tag name, the index of the closing '>', and
// whether the bytes form a plausible tag (a name of letters, optionally
// preceded by '/', optionally followed by attributes or a self-closing
// slash).
func scanTag(s string, start int) (name string, end int, ok bool) {
	j := start + 1
	if j < len(s) && s[j] == '/' {
		j++
	}
	nameStart := j
	for j < len(s) && isTagNameByte(s[j]) {
		j++
	}
	if j == nameStart {
		return "", 0, false
	}
	name = strings.ToLower(s[nameStart:j])
	// The name must terminate the tag or be followed by attributes or '/'.
	if j < len(s) && s[j] != '>' && s[j] != ' ' && s[j] != '\t' && s[j] != '/' {
		return "", 0, false
	}
	end = strings.IndexByte(s[j:], '>')
	if end < 0 {
		return "", 0, false
	}
	return name, j + end, true
}

func isTagNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
