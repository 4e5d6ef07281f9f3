// Package filewriter writes line-oriented text reports to disk and keeps
// count of the bytes written.
package filewriter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("filewriter: writer is closed")

// Writer is a buffered file writer. It is not safe for concurrent use.
type Writer struct {
	path  string
	f     *os.File
	buf   *bufio.Writer
	bytes int
}

// Open creates or opens path for writing. With append set, existing
// content is kept and new lines go at the end; otherwise the file is
// truncated.
func Open(path string, append bool) (*Writer, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filewriter: cannot open file %s: %w", path, err)
	}
	return &Writer{path: path, f: f, buf: bufio.NewWriter(f)}, nil
}

// Path returns the file path given to Open.
func (w *Writer) Path() string {
	return w.path
}

// WriteLine writes line followed by a newline.
func (w *Writer) WriteLine(line string) error {
	if !w.IsOpen() {
		return ErrClosed
	}
	n, err := w.buf.WriteString(line + "\n")
	w.bytes += n
	if err != nil {
		return fmt.Errorf("filewriter: write %s: %w", w.path, err)
	}
	return nil
}

// WriteBytes writes data as-is.
func (w *Writer) WriteBytes(data []byte) error {
	if !w.IsOpen() {
		return ErrClosed
	}
	n, err := w.buf.Write(data)
	w.bytes += n
	if err != nil {
		return fmt.Errorf("filewriter: write %s: %w", w.path, err)
	}
	return nil
}

// Flush pushes buffered data to the file.
func (w *Writer) Flush() error {
	if !w.IsOpen() {
		return ErrClosed
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("filewriter: flush %s: %w", w.path, err)
	}
	return nil
}

// IsOpen reports whether the writer can still accept data.
func (w *Writer) IsOpen() bool {
	return w.f != nil
}

// BytesWritten returns the total number of bytes accepted since Open.
func (w *Writer) BytesWritten() int {
	return w.bytes
}

// Close flushes and closes the file. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	ferr := w.buf.Flush()
	cerr := w.f.Close()
	w.f = nil
	if ferr != nil {
		return fmt.Errorf("filewriter: flush %s: %w", w.path, ferr)
	}
	if cerr != nil {
		return fmt.Errorf("filewriter: close %s: %w", w.path, cerr)
	}
	return nil
}
