package output

import "io"

// Option configures a Printer.
type Option func(*Printer)

// WithStyles styles output with provider. A nil or unavailable provider
// leaves the printer plain.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithWriter sets the destination. A nil writer keeps os.Stdout.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// PlainText forces plain output even when a StyleProvider is set. The
// terminal device always gets plain printers since it draws glyphs.
func PlainText() Option {
	return func(p *Printer) {
		p.forcePlain = true
	}
}
