package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Provider retrieves already-generated response text for offline apply.
type Provider struct{}

// New creates a new Provider.
func New() *Provider {
	return &Provider{}
}

// GetContent reads from stdin when piped, otherwise from the clipboard.
func (p *Provider) GetContent() (string, error) {
	stat, _ := os.Stdin.Stat()
	isPiped := (stat.Mode() & os.ModeCharDevice) == 0

	if isPiped {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
