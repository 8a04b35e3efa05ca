// Package chunker splits raw document text into overlapping, boundary-aware
// segments sized for the embedding model.
package chunker

import (
	"fmt"
	"strings"
)

// Chunker carves normalized text into overlapping windows, preferring to end
// each window at a sentence terminator, then at a word boundary.
type Chunker struct {
	ChunkSize int // max characters per chunk
	Overlap   int // characters shared between consecutive chunks
}

// New creates a Chunker. Overlap must be strictly less than chunkSize; an
// overlap that large would prevent the carving loop from advancing, so it is
// rejected up front instead of looping forever.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap (%d) must be strictly less than chunk size (%d)", overlap, chunkSize)
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}, nil
}

// Chunk splits text into an ordered sequence of chunks. The input is
// whitespace-normalized first; text no longer than the chunk size comes back
// as a single chunk. The function is pure: same input, same output.
func (c *Chunker) Chunk(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	if len(text) <= c.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + c.ChunkSize

		if end < len(text) {
			end = c.adjustEnd(text, start, end)
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// The clamped final window consumes the rest of the text; stepping
		// back by the overlap from here would re-emit already-carved text.
		if end == len(text) {
			break
		}

		next := end - c.Overlap
		if next < 0 {
			next = 0
		}
		// Boundary adjustment can shrink the window below the overlap;
		// force forward progress rather than re-carving the same region.
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// adjustEnd moves end backward to the nearest sentence terminator in
// (start, end) when that terminator lies past the window's midpoint,
// otherwise to the nearest space, otherwise leaves the hard cut.
func (c *Chunker) adjustEnd(text string, start, end int) int {
	window := text[start:end]

	lastTerminator := -1
	for _, t := range []byte{'.', '?', '!'} {
		if idx := strings.LastIndexByte(window, t); idx > lastTerminator {
			lastTerminator = idx
		}
	}
	if lastTerminator != -1 && lastTerminator > c.ChunkSize/2 {
		return start + lastTerminator + 1
	}

	if lastSpace := strings.LastIndexByte(window, ' '); lastSpace != -1 {
		return start + lastSpace + 1
	}

	return end
}

// Normalize collapses runs of whitespace into single spaces and trims the
// ends. Chunk offsets are computed over this normalized form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
