// Package docxfill fills DOCX templates from JSON payloads.
//
// Placeholders are dotted paths wrapped in double braces. Scalar values
// substitute in place, preserving the surrounding run's formatting; array
// values synthesize a table where the placeholder's paragraph was:
//
//	doc, err := docx.Open("template.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data := docxfill.Data{
//	    "client": map[string]any{"name": "Acme"},
//	    "rows": []any{
//	        []any{"Month", "Revenue"},
//	        []any{"Jan", "100"},
//	    },
//	}
//
//	if err := docxfill.New().Render(doc, data); err != nil {
//	    log.Fatal(err)
//	}
//	if err := doc.Save("output.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Table values may also be arrays of row objects with per-row and per-cell
// styles, or a single HTML <table> string. Cell content understands a
// small inline markup subset: <b>, <strong>, <i>, <em>, <u>, <br>, <p>.
//
// Values of the form {"type": "image", "data": <base64>} embed inline
// pictures, as do [dx-img:dot.path] tags inside text.
package docxfill

import "github.com/docxfill/go-docxfill/pkg/docxfill/docx"

// Engine is the main API for filling templates.
type Engine struct {
	config *Config
}

// New creates an engine with configuration taken from the environment.
func New() *Engine {
	return &Engine{config: ConfigFromEnvironment()}
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Render substitutes every placeholder in the document against data. The
// document is mutated in place; persisting it stays with the caller.
func (e *Engine) Render(doc *docx.Document, data Data) error {
	return NewReplacer(data, e.config).Apply(doc)
}

// RenderFile opens a template, renders it with data, and saves the result.
func (e *Engine) RenderFile(templatePath, outputPath string, data Data) error {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return err
	}
	if err := e.Render(doc, data); err != nil {
		return err
	}
	return doc.Save(outputPath)
}

// RenderFile renders a template file with data using a default engine.
func RenderFile(templatePath, outputPath string, data Data) error {
	return New().RenderFile(templatePath, outputPath, data)
}
