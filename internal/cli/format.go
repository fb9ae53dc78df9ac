// Package cli writes records to stdout for status bars to consume.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Texter is implemented by records that have a plain-text rendering.
type Texter interface {
	Text() string
}

// Formatter writes one record per line, as JSON or as text.
type Formatter struct {
	mu     sync.Mutex
	w      io.Writer
	asJSON bool
}

// NewFormatter creates a new formatter.
func NewFormatter(w io.Writer, asJSON bool) *Formatter {
	return &Formatter{w: w, asJSON: asJSON}
}

// Emit writes v followed by a newline. In text mode, records without a
// Text method fall back to JSON so nothing is lost.
func (f *Formatter) Emit(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := v.(Texter); ok && !f.asJSON {
		_, err := fmt.Fprintln(f.w, t.Text())
		return err
	}
	return json.NewEncoder(f.w).Encode(v)
}
