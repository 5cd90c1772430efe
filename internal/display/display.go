/*
Package display models the page the dashboard writes to. Handlers fill a
Page through the Surface interface and hand it to the HTML renderer.
*/
package display

import "strings"

// Surface is everything the dashboard needs to present a render.
type Surface interface {
	Title(text string)
	Caption(text string)
	Header(text string)
	Text(text string)
	Success(text string)
	Error(text string)
	Info(text string)

	// Trigger adds a button that posts to action.
	Trigger(label, action string)
}

// Kind is the style of a block.
type Kind string

const (
	KindText    Kind = "text"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindTrigger Kind = "trigger"
)

// Block is one rendered element inside a section.
type Block struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`

	// Strong is the leading **bold** part of a text block, if any.
	Strong string `json:"strong,omitempty"`

	// Action is the form target of a trigger block.
	Action string `json:"action,omitempty"`
}

// Section groups blocks under a heading. The first section may have an
// empty heading when blocks are written before any Header call.
type Section struct {
	Heading string  `json:"heading"`
	Blocks  []Block `json:"blocks"`
}

// Page records everything written to it, in order.
type Page struct {
	PageTitle   string    `json:"title"`
	PageCaption string    `json:"caption,omitempty"`
	Sections    []Section `json:"sections"`
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{}
}

func (p *Page) Title(text string)   { p.PageTitle = text }
func (p *Page) Caption(text string) { p.PageCaption = text }

func (p *Page) Header(text string) {
	p.Sections = append(p.Sections, Section{Heading: text})
}

func (p *Page) Text(text string) {
	strong, rest := splitStrong(text)
	p.add(Block{Kind: KindText, Strong: strong, Text: rest})
}

func (p *Page) Success(text string) { p.add(Block{Kind: KindSuccess, Text: text}) }
func (p *Page) Error(text string)   { p.add(Block{Kind: KindError, Text: text}) }
func (p *Page) Info(text string)    { p.add(Block{Kind: KindInfo, Text: text}) }

func (p *Page) Trigger(label, action string) {
	p.add(Block{Kind: KindTrigger, Text: label, Action: action})
}

// Blocks returns every block of the given kind across all sections.
func (p *Page) Blocks(kind Kind) []Block {
	var out []Block
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			if b.Kind == kind {
				out = append(out, b)
			}
		}
	}
	return out
}

func (p *Page) add(b Block) {
	if len(p.Sections) == 0 {
		p.Sections = append(p.Sections, Section{})
	}
	last := &p.Sections[len(p.Sections)-1]
	last.Blocks = append(last.Blocks, b)
}

// splitStrong separates a leading "**bold**" run from the rest of the text.
func splitStrong(text string) (string, string) {
	if !strings.HasPrefix(text, "**") {
		return "", text
	}
	end := strings.Index(text[2:], "**")
	if end < 0 {
		return "", text
	}
	return text[2 : 2+end], text[4+end:]
}
