package memory

import (
	"fmt"
	"strings"

	"github.com/sandevgo/roombot/internal/core"
)

// Assembler turns raw store output into a bounded, prompt-ready block.
// Pure formatting, no I/O.
type Assembler struct {
	maxLen int
}

// NewAssembler bounds formatted context to maxLen characters; zero or
// negative disables the bound.
func NewAssembler(maxLen int) *Assembler {
	return &Assembler{maxLen: maxLen}
}

// Format prefixes the raw context with a header matching the backend
// that produced it, then clips to the character budget. Empty input
// stays empty: no header over nothing.
func (a *Assembler) Format(backend, username, raw string) string {
	if raw == "" {
		return ""
	}

	var header string
	switch backend {
	case core.BackendMem0:
		header = fmt.Sprintf("What I remember about %s:", username)
	default:
		header = fmt.Sprintf("Recent conversation with %s:", username)
	}

	block := header + "\n" + raw
	if a.maxLen > 0 {
		if runes := []rune(block); len(runes) > a.maxLen {
			block = strings.TrimSpace(string(runes[:a.maxLen]))
		}
	}
	return block
}
