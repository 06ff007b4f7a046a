// Package textbuf defines the text buffer that backs an open document, and
// provides an in-memory implementation.
package textbuf

import (
	"io"
	"regexp"
	"strings"
	"sync"
)

// Buffer is the text storage of one document. The model only reads and
// writes whole contents, extracts the declared package, and tracks the
// modified flag and the cursor.
type Buffer interface {
	// Read replaces the content with everything read from r. It does not
	// change the modified flag.
	Read(r io.Reader) error
	// Write writes the whole content to w.
	Write(w io.Writer) error
	Text() string
	// SetText replaces the content and marks the buffer as modified.
	SetText(string)
	// PackageName returns the declared package, or "" for the unnamed
	// package.
	PackageName() string
	Modified() bool
	// MarkSaved clears the modified flag.
	MarkSaved()
	Cursor() int
	// SetCursor moves the cursor, clamping it to the content.
	SetCursor(int)
}

// Mem is a Buffer kept in memory. The zero value is an empty, unmodified
// buffer ready to use.
type Mem struct {
	mutex    sync.Mutex
	text     string
	modified bool
	cursor   int
}

// NewMem returns a Mem with the given initial content, marked unmodified.
func NewMem(text string) *Mem { return &Mem{text: text} }

func (b *Mem) Read(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.text = string(data)
	b.cursor = 0
	return nil
}

func (b *Mem) Write(w io.Writer) error {
	_, err := io.WriteString(w, b.Text())
	return err
}

func (b *Mem) Text() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.text
}

func (b *Mem) SetText(s string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.text = s
	b.modified = true
	b.cursor = min(b.cursor, len(s))
}

func (b *Mem) PackageName() string { return PackageName(b.Text()) }

func (b *Mem) Modified() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.modified
}

func (b *Mem) MarkSaved() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.modified = false
}

func (b *Mem) Cursor() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.cursor
}

func (b *Mem) SetCursor(i int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.cursor = max(0, min(i, len(b.text)))
}

var packageDecl = regexp.MustCompile(`^package\s+([\pL_$][\pL\pN_$]*(?:\s*\.\s*[\pL_$][\pL\pN_$]*)*)\s*;`)

// PackageName extracts the package declared by a source text. The
// declaration must be the first thing in the text apart from whitespace and
// comments. It returns "" when there is no declaration.
func PackageName(text string) string {
	m := packageDecl.FindStringSubmatch(strings.TrimSpace(stripComments(text)))
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(m[1], ".", " ")), ".")
}

// Replaces comments with a single space each. String literals are not
// recognized; this is only used to find the package declaration, which
// precedes any literal.
func stripComments(text string) string {
	var sb strings.Builder
	for len(text) > 0 {
		switch {
		case strings.HasPrefix(text, "//"):
			i := strings.IndexByte(text, '\n')
			if i == -1 {
				return sb.String()
			}
			sb.WriteByte(' ')
			text = text[i:]
		case strings.HasPrefix(text, "/*"):
			i := strings.Index(text[2:], "*/")
			if i == -1 {
				return sb.String()
			}
			sb.WriteByte(' ')
			text = text[i+4:]
		default:
			sb.WriteByte(text[0])
			text = text[1:]
		}
	}
	return sb.String()
}

// LineOffset returns the byte offset of the start of a 1-based line. Lines
// before the first are treated as the first, and lines after the last as the
// last.
func LineOffset(text string, line int) int {
	offset := 0
	for n := 1; n < line; n++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i == -1 {
			break
		}
		offset += i + 1
	}
	return offset
}
