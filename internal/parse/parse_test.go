package parse

import (
	"testing"
)

const cardSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["front", "back"],
		"properties": {
			"front": {"type": "string"},
			"back": {"type": "string"}
		}
	}
}`

func TestExtractList(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "bare list",
			raw:    `[{"front": "a", "back": "b"}]`,
			want:   `[{"front": "a", "back": "b"}]`,
			wantOK: true,
		},
		{
			name:   "list wrapped in prose",
			raw:    "Here are your cards:\n[{\"front\": \"a\", \"back\": \"b\"}]\nEnjoy!",
			want:   `[{"front": "a", "back": "b"}]`,
			wantOK: true,
		},
		{
			name:   "no list",
			raw:    "Front: a\nBack: b",
			wantOK: false,
		},
		{
			name:   "closing before opening",
			raw:    "}] text [{",
			wantOK: false,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractList(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ExtractList() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	got, ok := ExtractObject("The map:\n{\"nodes\": [], \"edges\": []}\ndone")
	if !ok {
		t.Fatal("ExtractObject() ok = false")
	}
	if got != `{"nodes": [], "edges": []}` {
		t.Errorf("ExtractObject() = %q", got)
	}

	if _, ok := ExtractObject("no braces here"); ok {
		t.Error("ExtractObject() ok = true for braceless input")
	}
}

func TestDecode(t *testing.T) {
	type card struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}

	t.Run("valid payload round-trips", func(t *testing.T) {
		var cards []card
		err := Decode(`[{"front": "What is DNA?", "back": "Genetic material"}]`, cardSchema, &cards)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(cards) != 1 || cards[0].Front != "What is DNA?" || cards[0].Back != "Genetic material" {
			t.Errorf("Decode() = %+v", cards)
		}
	})

	t.Run("schema violation rejected", func(t *testing.T) {
		var cards []card
		err := Decode(`[{"front": "only half a card"}]`, cardSchema, &cards)
		if err == nil {
			t.Fatal("Decode() error = nil, want schema violation")
		}
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		var cards []card
		if err := Decode(`[{"front": `, cardSchema, &cards); err == nil {
			t.Fatal("Decode() error = nil, want decode failure")
		}
	})

	t.Run("empty schema skips validation", func(t *testing.T) {
		var m map[string]any
		if err := Decode(`{"anything": true}`, "", &m); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
	})
}

func TestBlocks(t *testing.T) {
	got := Blocks("first block\nstill first\n\nsecond block\n\n\n  \n\nthird")
	want := []string{"first block\nstill first", "second block", "third"}
	if len(got) != len(want) {
		t.Fatalf("Blocks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Blocks()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSections(t *testing.T) {
	raw := `Key Concepts: cells and organelles
are the building blocks.

Definitions: a cell is the smallest unit of life.

Summary: everything is made of cells.

Practice Questions: 1. What is a cell?`

	sections := Sections(raw, "Key Concepts", "Definitions", "Summary", "Practice Questions")
	if len(sections) != 4 {
		t.Fatalf("Sections() returned %d sections: %v", len(sections), sections)
	}
	if sections["Definitions"] != "a cell is the smallest unit of life." {
		t.Errorf("Definitions = %q", sections["Definitions"])
	}
	if sections["Practice Questions"] != "1. What is a cell?" {
		t.Errorf("Practice Questions = %q", sections["Practice Questions"])
	}

	partial := Sections("Summary: short one.", "Key Concepts", "Summary")
	if _, ok := partial["Key Concepts"]; ok {
		t.Error("Sections() invented an absent header")
	}
	if partial["Summary"] != "short one." {
		t.Errorf("Summary = %q", partial["Summary"])
	}
}

func TestFields(t *testing.T) {
	block := "Card 1\nFront: What is osmosis?\nback: Diffusion of water\nIgnored: x"
	fields := Fields(block, "Front", "Back")
	if fields["Front"] != "What is osmosis?" {
		t.Errorf("Front = %q", fields["Front"])
	}
	if fields["Back"] != "Diffusion of water" {
		t.Errorf("Back = %q", fields["Back"])
	}
	if _, ok := fields["Ignored"]; ok {
		t.Error("Fields() picked up an unrequested field")
	}
}

func TestBulletItems(t *testing.T) {
	text := "- first point\n* second point\nnot a bullet\n-  \n- third"
	got := BulletItems(text)
	want := []string{"first point", "second point", "third"}
	if len(got) != len(want) {
		t.Fatalf("BulletItems() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BulletItems()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
