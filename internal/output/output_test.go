package output

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

// markerStyles wraps text in [semantic]...[/semantic] markers.
type markerStyles struct {
	available bool
}

func (m *markerStyles) GetStyle(semantic string) TextStyle {
	return NewPlainTextStyle("[" + semantic + "]")
}

func (m *markerStyles) IsAvailable() bool {
	return m.available
}

func TestPrinterBasicOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), PlainText())

	printer.Print("hello ")
	printer.Println("world")
	printer.Println("again\n")

	assert.Equal(t, "hello world\nagain\n", buffer.String())
}

func TestPrinterSemanticOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), PlainText())

	printer.Info("information")
	printer.Success("completed")
	printer.Error("failed")

	assert.Equal(t, "information\ncompleted\nerror: failed\n", buffer.String())
}

func TestPrinterWithStyleProvider(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(&markerStyles{available: true}))

	printer.Info("test message")
	printer.Error("bad")

	assert.True(t, printer.IsStylable())
	assert.Equal(t, "[info]test message\n[error]bad\n", buffer.String())
}

func TestPrinterWithUnavailableStyleProvider(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(&markerStyles{}))
	printer.Error("test message")

	assert.False(t, printer.IsStylable())
	assert.Equal(t, "error: test message\n", buffer.String())
}

func TestPrinterPlainTextIgnoresStyles(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(&markerStyles{available: true}), PlainText())

	printer.Error("test message")
	printer.Success("done")

	assert.False(t, printer.IsStylable())
	assert.Equal(t, "error: test message\ndone\n", buffer.String())
}

func TestWithWriterNilKeepsDefault(t *testing.T) {
	printer := NewPrinter(WithWriter(nil))
	assert.NotNil(t, printer.writer)
}

func TestConsoleStyleProvider(t *testing.T) {
	provider := NewConsoleStyleProvider()
	assert.True(t, provider.IsAvailable())

	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(provider))
	printer.Error("boom")
	printer.Println("plain")

	assert.Equal(t, "boom\nplain\n", ansi.Strip(buffer.String()))
}
