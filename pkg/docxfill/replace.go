package docxfill

import (
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/docxfill/go-docxfill/pkg/docxfill/docx"
)

// Placeholder syntax: {{segment.segment...}}, segments of word characters.
var placeholderRx = regexp.MustCompile(`\{\{(\w+(?:\.\w+)*)\}\}`)

// Replacer walks a document tree once and substitutes every placeholder it
// can resolve against the payload. One Replacer serves one Apply call; a
// document tree must not be shared across concurrent calls.
type Replacer struct {
	data       Data
	strict     bool
	log        zerolog.Logger
	unresolved []string
	seen       map[string]bool

	doc      *docx.Document
	part     string
	drawings int
}

// NewReplacer builds a Replacer for one payload.
func NewReplacer(data Data, cfg *Config) *Replacer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Replacer{
		data:   data,
		strict: cfg.Strict,
		log:    Component("replacer"),
		seen:   make(map[string]bool),
	}
}

// Apply substitutes placeholders in the document body, existing table
// cells, headers, and footers, in document order, exactly once per
// location. Unresolved placeholders stay literal; in strict mode they are
// also returned as an UnresolvedError after the full pass.
func (r *Replacer) Apply(doc *docx.Document) error {
	r.doc = doc
	for _, part := range doc.EditableParts() {
		root := part.Tree.Root()
		if root == nil {
			continue
		}
		r.part = part.Name
		r.applyTree(root)
	}

	if len(r.unresolved) > 0 {
		r.log.Warn().Strs("paths", r.unresolved).Msg("unresolved placeholders left literal")
		if r.strict {
			return &UnresolvedError{Paths: r.unresolved}
		}
	}
	return nil
}

// applyTree processes a snapshot of the paragraphs under root. Tables
// synthesized during the pass insert new paragraphs into the tree, but
// those are never rescanned, so delimiter-like text inside payload data
// cannot trigger another substitution round.
func (r *Replacer) applyTree(root *etree.Element) {
	for _, p := range docx.Paragraphs(root) {
		if r.replaceWithTable(p) {
			continue
		}
		r.substituteParagraph(p)
	}
}

// replaceWithTable checks the paragraph for a placeholder whose value is
// table-shaped (a JSON array or an HTML table string) and, if found, swaps
// the whole paragraph for a synthesized table at the same tree position.
func (r *Replacer) replaceWithTable(p *etree.Element) bool {
	text := docx.ParagraphText(p)
	for _, m := range placeholderRx.FindAllStringSubmatch(text, -1) {
		path := m[1]
		value, ok := r.data.Resolve(path)
		if !ok || !IsTableValue(value) {
			continue
		}
		spec, err := TableSpecFromValue(value)
		if err != nil {
			r.log.Warn().Str("path", path).Err(err).Msg("table value not renderable, left literal")
			r.recordUnresolved(path)
			return false
		}
		if rest := strings.TrimSpace(strings.Replace(text, m[0], "", 1)); rest != "" {
			r.log.Debug().Str("path", path).Str("discarded", rest).
				Msg("paragraph around table placeholder is replaced by the table")
		}
		tbl := buildTable(spec)
		if docx.ReplaceElement(p, tbl) {
			ensureTrailingCellParagraph(tbl)
			r.log.Debug().Str("path", path).Int("rows", len(spec.Rows)).
				Int("columns", spec.ColumnCount()).Msg("table synthesized")
			return true
		}
		return false
	}
	return false
}

// ensureTrailingCellParagraph keeps a table cell valid after one of its
// paragraphs was swapped for a table: a w:tc must end with a w:p, so a
// table landing in last position gets an empty paragraph after it.
func ensureTrailingCellParagraph(tbl *etree.Element) {
	parent := tbl.Parent()
	if parent == nil || parent.Tag != "tc" {
		return
	}
	children := parent.ChildElements()
	if len(children) > 0 && children[len(children)-1].Tag != "p" {
		parent.AddChild(docx.NewParagraph())
	}
}

// substituteParagraph resolves scalar placeholders run by run. When a
// placeholder is split across runs by the word processor, the paragraph's
// runs are first consolidated into the first text run, which then keeps
// its original properties for the substituted text.
func (r *Replacer) substituteParagraph(p *etree.Element) {
	texts := docx.TextElements(p)
	if len(texts) == 0 {
		return
	}

	if r.placeholderSpansRuns(p, texts) {
		full := docx.ParagraphText(p)
		texts[0].SetText(full)
		for _, t := range texts[1:] {
			t.SetText("")
		}
	}

	for _, t := range texts {
		if r.expandImageTokens(p, t) {
			continue
		}
		old := t.Text()
		replaced := r.substituteText(old)
		if replaced == old {
			continue
		}
		if HasMarkup(replaced) || strings.Contains(replaced, "\n") {
			r.expandRun(p, t, replaced)
			continue
		}
		t.SetText(replaced)
	}
}

// placeholderSpansRuns reports whether the paragraph text contains a
// placeholder or image reference that no single run contains in full.
// Every token held whole by one run also matches in the paragraph text,
// so a count gap means some token crosses a run boundary.
func (r *Replacer) placeholderSpansRuns(p *etree.Element, texts []*etree.Element) bool {
	full := docx.ParagraphText(p)
	for _, rx := range []*regexp.Regexp{placeholderRx, inlineImageRx} {
		total := len(rx.FindAllString(full, -1))
		if total == 0 {
			continue
		}
		whole := 0
		for _, t := range texts {
			whole += len(rx.FindAllString(t.Text(), -1))
		}
		if whole < total {
			return true
		}
	}
	return false
}

// substituteText resolves every placeholder in a text fragment left to
// right. Produced text is never rescanned. Unresolved paths and values
// that are mappings stay literal.
func (r *Replacer) substituteText(text string) string {
	return placeholderRx.ReplaceAllStringFunc(text, func(token string) string {
		path := token[2 : len(token)-2]
		value, ok := r.data.Resolve(path)
		if !ok {
			r.recordUnresolved(path)
			return token
		}
		switch value.(type) {
		case map[string]any, []any:
			// The path stops on a container; only a longer path can use it.
			r.recordUnresolved(path)
			return token
		}
		r.log.Debug().Str("path", path).Msg("placeholder substituted")
		return formatScalar(value)
	})
}

// expandRun rewrites a run whose substituted text carries inline markup or
// newlines: the run is replaced by one run per span, each cloning the
// original run properties with the span attributes layered on top, breaks
// becoming w:br runs.
func (r *Replacer) expandRun(p *etree.Element, t *etree.Element, text string) {
	run := t.Parent()
	if run == nil || run.Tag != "r" {
		t.SetText(text)
		return
	}
	rPr := docx.RunProperties(run)

	spans := ParseMarkup(strings.ReplaceAll(text, "\n", "<br>"))
	runs := make([]*etree.Element, 0, len(spans))
	for _, span := range spans {
		if span.Break {
			runs = append(runs, docx.NewBreakRun())
			continue
		}
		runs = append(runs, docx.NewStyledRun(span.Text, rPr, docx.RunProps{
			Bold:      span.Bold,
			Italic:    span.Italic,
			Underline: span.Underline,
		}))
	}
	if !docx.ReplaceRun(run, runs) {
		t.SetText(text)
	}
}

// imageToken is one image reference found in a run's text: a placeholder
// resolving to an image value, or an explicit [dx-img:path] tag.
type imageToken struct {
	start, end int
	path       string
	value      *imageValue
}

// findImageTokens scans a text fragment for image references. Image-shaped
// values whose payload cannot be decoded are warned about and skipped, so
// their token stays literal.
func (r *Replacer) findImageTokens(text string) []imageToken {
	var tokens []imageToken
	for _, rx := range []*regexp.Regexp{placeholderRx, inlineImageRx} {
		for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
			path := text[m[2]:m[3]]
			value, ok := r.data.Resolve(path)
			if !ok || !IsImageValue(value) {
				continue
			}
			parsed, err := parseImageValue(value)
			if err != nil {
				r.log.Warn().Str("path", path).Err(err).Msg("image value not renderable, left literal")
				r.recordUnresolved(path)
				continue
			}
			tokens = append(tokens, imageToken{start: m[0], end: m[1], path: path, value: parsed})
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].start < tokens[j].start })
	return tokens
}

// expandImageTokens replaces a run whose text carries image references: the
// run becomes a sequence of text runs (cloning the original properties,
// with remaining placeholders substituted) and inline picture runs. List
// values emit one picture per entry, separated by breaks for the vertical
// layout and spaces for the horizontal one.
func (r *Replacer) expandImageTokens(p *etree.Element, t *etree.Element) bool {
	if r.doc == nil {
		return false
	}
	text := t.Text()
	tokens := r.findImageTokens(text)
	if len(tokens) == 0 {
		return false
	}
	run := t.Parent()
	if run == nil || run.Tag != "r" {
		return false
	}
	rPr := docx.RunProperties(run)

	var runs []*etree.Element
	addText := func(s string) {
		if s == "" {
			return
		}
		if s = r.substituteText(s); s != "" {
			runs = append(runs, docx.NewStyledRun(s, rPr, docx.RunProps{}))
		}
	}

	pos := 0
	align := ""
	for _, tok := range tokens {
		if tok.start < pos {
			// Overlapping match, e.g. a placeholder nested in a tag that
			// was already consumed.
			continue
		}
		addText(text[pos:tok.start])
		pos = tok.end
		if tok.value.align != "left" {
			align = tok.value.align
		}
		for i, spec := range tok.value.specs {
			if i > 0 {
				if tok.value.layout == "horizontal" {
					runs = append(runs, docx.NewStyledRun(" ", rPr, docx.RunProps{}))
				} else {
					runs = append(runs, docx.NewBreakRun())
				}
			}
			rid, err := r.doc.AddImage(r.part, spec.Data, spec.Ext)
			if err != nil {
				r.log.Warn().Str("path", tok.path).Err(err).Msg("image could not be embedded, left literal")
				r.recordUnresolved(tok.path)
				runs = append(runs, docx.NewStyledRun(text[tok.start:tok.end], rPr, docx.RunProps{}))
				break
			}
			r.drawings++
			runs = append(runs, docx.NewImageRun(rid, r.drawings, spec.Width, spec.Height))
			r.log.Debug().Str("path", tok.path).Str("rid", rid).Msg("image embedded")
		}
	}
	addText(text[pos:])

	if !docx.ReplaceRun(run, runs) {
		return false
	}
	if align != "" {
		setParagraphAlignment(p, align)
	}
	return true
}

// setParagraphAlignment sets w:jc on the paragraph, creating w:pPr in
// first position when the paragraph has none.
func setParagraphAlignment(p *etree.Element, align string) {
	pPr := p.SelectElement("w:pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		p.InsertChildAt(0, pPr)
	}
	jc := pPr.SelectElement("w:jc")
	if jc == nil {
		jc = pPr.CreateElement("w:jc")
	}
	jc.CreateAttr("w:val", align)
}

func (r *Replacer) recordUnresolved(path string) {
	if r.seen[path] {
		return
	}
	r.seen[path] = true
	r.unresolved = append(r.unresolved, path)
}
