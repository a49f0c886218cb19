package xlgrid

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard stores and fetches the text exchanged by copy, cut and paste.
// Implementations should support concurrent access.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// NewClipboard returns the system clipboard, or an empty memory clipboard
// when the system clipboard is unavailable.
func NewClipboard() Clipboard {
	if clipboard.Unsupported {
		return NewMemClipboard()
	}
	return sysClipboard{}
}

// NewMemClipboard returns an empty, memory-based clipboard.
func NewMemClipboard() Clipboard {
	return &memClipboard{}
}

type sysClipboard struct{}

func (sysClipboard) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (sysClipboard) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *memClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *memClipboard) WriteText(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}
