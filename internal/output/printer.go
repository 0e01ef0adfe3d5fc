package output

import (
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes semantic output to an io.Writer.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	forcePlain    bool

	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes plain text to os.Stdout.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Error outputs error text.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := p.style(semantic).Render(text)
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	_, _ = io.WriteString(p.writer, result) // output is best effort
}

// style picks the provider style unless the printer is plain.
func (p *Printer) style(semantic SemanticType) TextStyle {
	if p.IsStylable() {
		return p.styleProvider.GetStyle(string(semantic))
	}
	return plainStyles.GetStyle(string(semantic))
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}
