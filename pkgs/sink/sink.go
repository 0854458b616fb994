// Package sink buffers verbatim host-language source the parser captures
// (global declarations, action bodies, condition expressions, and the
// like) to a temporary file rather than holding it in memory, since CHSM
// input files can carry an essentially unbounded amount of embedded host
// code between the structural bits the parser actually cares about.
//
// Validation runs entirely over the symbol table and IR and never needs
// the user code itself, so the sink is write-only during parsing; once
// validation has passed, the code generator rewinds it and copies its
// contents into the definition stream at the right point.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink is a write-only buffer for host code captured during parsing,
// backed by a temp file so arbitrarily large embedded fragments don't
// bloat the compiler's own memory footprint.
type Sink struct {
	file *os.File
	w    *bufio.Writer
}

// New creates a sink backed by a fresh temp file. The file stays in the
// temp directory until Close closes and removes it; an exit that skips
// Close leaves it behind.
func New() (*Sink, error) {
	f, err := os.CreateTemp("", "chsmc-usercode-*")
	if err != nil {
		return nil, fmt.Errorf("sink: create temp file: %w", err)
	}
	s := &Sink{file: f, w: bufio.NewWriter(f)}
	return s, nil
}

// Write implements io.Writer, appending to the sink.
func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// WriteString appends a string to the sink.
func (s *Sink) WriteString(str string) (int, error) {
	return s.w.WriteString(str)
}

// Rewind flushes any buffered writes and seeks back to the start of the
// underlying file, readying it for CopyTo. Once rewound the sink must not
// be written to again.
func (s *Sink) Rewind() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("sink: flush: %w", err)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("sink: seek: %w", err)
	}
	return nil
}

// CopyTo copies the sink's entire contents to w. Call Rewind first.
func (s *Sink) CopyTo(w io.Writer) (int64, error) {
	n, err := io.Copy(w, s.file)
	if err != nil {
		return n, fmt.Errorf("sink: copy: %w", err)
	}
	return n, nil
}

// Close releases the underlying temp file. Safe to call multiple times.
func (s *Sink) Close() error {
	name := s.file.Name()
	err := s.file.Close()
	os.Remove(name)
	return err
}

// Chunk is one piece of raw host-language text the parser diverted into
// the sink: an aux-function kind tag and ID (0 for the file-scope
// preamble), the source line it began on, and its verbatim text.
type Chunk struct {
	Kind string
	ID   int
	Line int
	Text string
}

// WriteChunk appends one length-prefixed chunk record. The length prefix
// lets ChunkReader.Next recover the exact text regardless of embedded newlines or
// delimiter-like substrings in user code.
func (s *Sink) WriteChunk(c Chunk) error {
	if _, err := fmt.Fprintf(s.w, "CHUNK %s %d %d %d\n", c.Kind, c.ID, c.Line, len(c.Text)); err != nil {
		return fmt.Errorf("sink: write chunk header: %w", err)
	}
	if _, err := s.w.WriteString(c.Text); err != nil {
		return fmt.Errorf("sink: write chunk body: %w", err)
	}
	if _, err := s.w.WriteString("\n"); err != nil {
		return fmt.Errorf("sink: write chunk trailer: %w", err)
	}
	return nil
}

// ChunkReader reads back chunks written with WriteChunk, in write order.
// Call Rewind and construct a ChunkReader before generation begins; the
// generator consumes chunks in the same order the parser produced them,
// since declaration order in the IR matches encounter order during
// parsing.
type ChunkReader struct {
	r *bufio.Reader
}

// NewChunkReader wraps the sink's file for sequential chunk reads. Call
// Rewind first.
func (s *Sink) NewChunkReader() *ChunkReader {
	return &ChunkReader{r: bufio.NewReader(s.file)}
}

// Next reads the next chunk, or returns io.EOF once the stream is
// exhausted.
func (cr *ChunkReader) Next() (Chunk, error) {
	header, err := cr.r.ReadString('\n')
	if err != nil {
		return Chunk{}, err
	}
	var c Chunk
	var n int
	if _, err := fmt.Sscanf(header, "CHUNK %s %d %d %d\n", &c.Kind, &c.ID, &c.Line, &n); err != nil {
		return Chunk{}, fmt.Errorf("sink: malformed chunk header %q: %w", header, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return Chunk{}, fmt.Errorf("sink: short chunk body: %w", err)
	}
	if _, err := cr.r.ReadByte(); err != nil { // trailing newline
		return Chunk{}, fmt.Errorf("sink: missing chunk trailer: %w", err)
	}
	c.Text = string(buf)
	return c, nil
}
