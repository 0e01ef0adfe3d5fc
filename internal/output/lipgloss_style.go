package output

import "github.com/charmbracelet/lipgloss"

// ConsoleStyleProvider styles output for the host console with lipgloss.
type ConsoleStyleProvider struct {
	styles map[SemanticType]lipgloss.Style
}

// NewConsoleStyleProvider returns the default console palette.
func NewConsoleStyleProvider() *ConsoleStyleProvider {
	return &ConsoleStyleProvider{
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			SemanticSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			SemanticError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// GetStyle implements StyleProvider. Unknown semantics render unstyled.
func (c *ConsoleStyleProvider) GetStyle(semantic string) TextStyle {
	if style, ok := c.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{style}
	}
	return lipglossStyle{lipgloss.NewStyle()}
}

// lipglossStyle adapts the variadic lipgloss Render to TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (s lipglossStyle) Render(text string) string {
	return s.style.Render(text)
}

// IsAvailable implements StyleProvider.
func (c *ConsoleStyleProvider) IsAvailable() bool {
	return true
}
