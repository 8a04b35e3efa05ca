package chunker

import (
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   bool
	}{
		{"valid", 1000, 200, false},
		{"zero overlap", 1000, 0, false},
		{"overlap equals chunk size", 100, 100, true},
		{"overlap exceeds chunk size", 100, 150, true},
		{"negative overlap", 100, -1, true},
		{"zero chunk size", 0, 0, true},
		{"negative chunk size", -5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.chunkSize, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d) error = %v, wantErr %v", tt.chunkSize, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c, err := New(1000, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := "A short document well under the chunk size."
	chunks := c.Chunk(text)

	if len(chunks) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("Chunk() = %q, want %q", chunks[0], text)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	c, _ := New(1000, 200)
	if got := c.Chunk("   \n\t  "); got != nil {
		t.Errorf("Chunk() on whitespace = %v, want nil", got)
	}
}

func TestChunk_Normalization(t *testing.T) {
	c, _ := New(1000, 200)
	chunks := c.Chunk("  multiple   spaces\n\nand\tnewlines  ")
	if len(chunks) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "multiple spaces and newlines" {
		t.Errorf("Chunk() = %q, normalization failed", chunks[0])
	}
}

// A 3000-character document at chunk_size=1000, overlap=200 must yield
// exactly 4 chunks, each no longer than 1000 characters.
func TestChunk_ThreeThousandCharacters(t *testing.T) {
	c, err := New(1000, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// No spaces or terminators, so every cut is a hard cut at exactly
	// chunk-size width: [0:1000] [800:1800] [1600:2600] [2400:3000].
	text := strings.Repeat("a", 3000)
	chunks := c.Chunk(text)

	if len(chunks) != 4 {
		t.Fatalf("Chunk() returned %d chunks, want 4", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 1000 {
			t.Errorf("chunk %d has length %d, exceeds chunk size 1000", i, len(chunk))
		}
	}
	if len(chunks[3]) != 600 {
		t.Errorf("final chunk length = %d, want 600", len(chunks[3]))
	}
}

// Once a window reaches the end of the text, carving must stop: stepping
// back by the overlap from the clamped end would emit a final chunk that is
// nothing but re-read text.
func TestChunk_NoTrailingOverlapChunk(t *testing.T) {
	c, _ := New(1000, 200)

	// Non-repeating text so chunk contents identify their offsets.
	buf := make([]byte, 3000)
	for i := range buf {
		buf[i] = 'a' + byte(i*7%26)
	}
	text := string(buf)
	chunks := c.Chunk(text)

	if len(chunks) != 4 {
		t.Fatalf("Chunk() returned %d chunks, want 4", len(chunks))
	}
	last := chunks[len(chunks)-1]
	if last != text[2400:] {
		t.Errorf("final chunk covers %q..., want the window starting at 2400", last[:10])
	}
	for i := 1; i < len(chunks); i++ {
		if strings.HasSuffix(chunks[i-1], chunks[i]) {
			t.Errorf("chunk %d is entirely contained in chunk %d", i, i-1)
		}
	}
}

// With no boundary adjustment, consecutive chunks share exactly the overlap
// and concatenating them with overlaps removed reconstructs the input.
func TestChunk_OverlapAndReconstruction(t *testing.T) {
	c, _ := New(1000, 200)
	text := strings.Repeat("b", 3000)
	chunks := c.Chunk(text)

	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-200:]
		curHead := chunks[i][:200]
		if prevTail != curHead {
			t.Errorf("chunks %d and %d do not share exactly 200 characters", i-1, i)
		}
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i][200:])
	}
	if rebuilt.String() != text {
		t.Error("concatenating chunks with overlaps removed did not reconstruct the input")
	}
}

func TestChunk_SentenceBoundaryAdjustment(t *testing.T) {
	c, err := New(100, 20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Sentences of ~30 characters; each window past the first should end
	// right after a terminator rather than mid-sentence.
	sentence := "The quick brown fox jumps up."
	text := strings.Repeat(sentence+" ", 20)
	chunks := c.Chunk(text)

	if len(chunks) < 2 {
		t.Fatalf("Chunk() returned %d chunks, want several", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d has length %d, exceeds chunk size", i, len(chunk))
		}
		if i < len(chunks)-1 && !strings.HasSuffix(chunk, ".") {
			t.Errorf("chunk %d = %q does not end at a sentence boundary", i, chunk)
		}
	}
}

func TestChunk_SpaceBoundaryFallback(t *testing.T) {
	c, _ := New(100, 10)

	// Words but no sentence terminators: windows should break at spaces.
	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	chunks := c.Chunk(text)

	for i, chunk := range chunks {
		if strings.Contains(chunk, "  ") {
			t.Errorf("chunk %d contains doubled spaces: %q", i, chunk)
		}
		if len(chunk) > 100 {
			t.Errorf("chunk %d has length %d, exceeds chunk size", i, len(chunk))
		}
	}

	// Windows end just after a space, so every chunk's last word is whole.
	// Chunk starts can land mid-word where the overlap re-enters the
	// previous window.
	for i, chunk := range chunks {
		words := strings.Fields(chunk)
		switch last := words[len(words)-1]; last {
		case "lorem", "ipsum", "dolor", "sit", "amet":
		default:
			t.Errorf("chunk %d ends mid-word: %q", i, last)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c, _ := New(500, 100)
	text := strings.Repeat("Determinism is a property of pure functions. ", 50)

	first := c.Chunk(text)
	second := c.Chunk(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunk_ForwardProgressOnDegenerateInput(t *testing.T) {
	c, _ := New(100, 90)

	// A single space early in an otherwise unbroken run used to allow the
	// window to shrink below the overlap; the loop must still terminate.
	text := "ab " + strings.Repeat("c", 500)
	chunks := c.Chunk(text)

	if len(chunks) == 0 {
		t.Fatal("Chunk() returned no chunks")
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total < 500 {
		t.Errorf("chunks cover %d characters, input had %d", total, len(text))
	}
}
