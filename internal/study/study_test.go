package study

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"studymate/internal/llm"
	"studymate/internal/parse"
)

// scriptedGenerator returns queued responses in order and records prompts.
type scriptedGenerator struct {
	responses []string
	prompts   []string
	err       error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, _ llm.GenerateParams) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	response := g.responses[0]
	g.responses = g.responses[1:]
	return response, nil
}

func (g *scriptedGenerator) ChatWithMessages(context.Context, []llm.Message, llm.ChatParams) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func TestGenerateMCQs_StrictJSON(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`Here you go:
[{"question": "What organelle produces ATP?", "options": ["A. Nucleus", "B. Mitochondrion", "C. Ribosome", "D. Golgi"], "correct_answer": "B", "explanation": "Mitochondria run cellular respiration."}]`,
	}}
	s := NewService(gen)

	quiz, err := s.GenerateMCQs(context.Background(), "cell biology notes", 1, "easy")
	if err != nil {
		t.Fatalf("GenerateMCQs() error = %v", err)
	}
	if quiz.Status != parse.StatusParsed {
		t.Errorf("Status = %s, want parsed", quiz.Status)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(quiz.Questions))
	}
	q := quiz.Questions[0]
	if q.CorrectAnswer != "B" || len(q.Options) != 4 {
		t.Errorf("question = %+v", q)
	}
	if !strings.Contains(gen.prompts[0], "easy difficulty") {
		t.Errorf("prompt missing difficulty:\n%s", gen.prompts[0])
	}
}

func TestGenerateMCQs_Heuristic(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`1. What gas do plants absorb? A. Oxygen B. Carbon dioxide C. Nitrogen D. Helium
The correct answer is B because photosynthesis fixes carbon.

2. Where does photosynthesis occur? A. Chloroplast B. Nucleus
correct: A`,
	}}
	s := NewService(gen)

	quiz, err := s.GenerateMCQs(context.Background(), "photosynthesis notes", 5, "")
	if err != nil {
		t.Fatalf("GenerateMCQs() error = %v", err)
	}
	if quiz.Status != parse.StatusDegraded {
		t.Errorf("Status = %s, want degraded", quiz.Status)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("got %d questions, want 2: %+v", len(quiz.Questions), quiz.Questions)
	}
	if quiz.Questions[0].CorrectAnswer != "B" {
		t.Errorf("first correct answer = %s, want B", quiz.Questions[0].CorrectAnswer)
	}
	if quiz.Questions[1].CorrectAnswer != "A" {
		t.Errorf("second correct answer = %s, want A", quiz.Questions[1].CorrectAnswer)
	}
	if len(quiz.Questions[0].Options) != 4 {
		t.Errorf("first question options = %v", quiz.Questions[0].Options)
	}
}

func TestGenerateMCQs_PlaceholderOnGibberish(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"I am sorry, I cannot help with that."}}
	s := NewService(gen)

	quiz, err := s.GenerateMCQs(context.Background(), "anything", 3, "hard")
	if err != nil {
		t.Fatalf("GenerateMCQs() error = %v", err)
	}
	if quiz.Status != parse.StatusFailed {
		t.Errorf("Status = %s, want failed", quiz.Status)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("got %d questions, want the single placeholder", len(quiz.Questions))
	}
	if !strings.Contains(quiz.Questions[0].Question, "Failed to parse") {
		t.Errorf("placeholder question = %q", quiz.Questions[0].Question)
	}
}

func TestGenerateQuizFromDocument_Topics(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"gibberish"}}
	s := NewService(gen)

	if _, err := s.GenerateQuizFromDocument(context.Background(), "long document text", 4, []string{"mitosis", "meiosis"}, "medium"); err != nil {
		t.Fatalf("GenerateQuizFromDocument() error = %v", err)
	}
	if !strings.Contains(gen.prompts[0], "focusing on these topics: mitosis, meiosis") {
		t.Errorf("prompt missing topic focus:\n%s", gen.prompts[0])
	}
}

func TestGenerateFlashcards(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantStatus parse.Status
		wantCards  int
	}{
		{
			name:       "strict json",
			response:   `[{"front": "What is DNA?", "back": "Genetic material"}, {"front": "What is RNA?", "back": "Messenger molecule"}]`,
			wantStatus: parse.StatusParsed,
			wantCards:  2,
		},
		{
			name:       "heuristic front/back lines",
			response:   "Card 1\nFront: What is osmosis?\nBack: Water diffusion\n\nCard 2\nfront: What is a cell?\nback: Smallest living unit",
			wantStatus: parse.StatusDegraded,
			wantCards:  2,
		},
		{
			name:       "gibberish placeholder",
			response:   "no structure whatsoever",
			wantStatus: parse.StatusFailed,
			wantCards:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(&scriptedGenerator{responses: []string{tt.response}})
			set, err := s.GenerateFlashcards(context.Background(), "notes", 10)
			if err != nil {
				t.Fatalf("GenerateFlashcards() error = %v", err)
			}
			if set.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", set.Status, tt.wantStatus)
			}
			if len(set.Cards) != tt.wantCards {
				t.Errorf("got %d cards, want %d", len(set.Cards), tt.wantCards)
			}
		})
	}
}

func TestSummarize_FormattedResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`Summary: Cells are the smallest living units and contain organelles.

Key Points:
- Cells are the basic unit of life
- Organelles divide labor within the cell
- Mitochondria produce ATP
- The nucleus stores DNA
- Ribosomes build proteins
- Extra point beyond the cap`,
	}}
	s := NewService(gen)

	summary, err := s.Summarize(context.Background(), "cell biology chapter", "short", "organelles")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Status != parse.StatusParsed {
		t.Errorf("Status = %s, want parsed", summary.Status)
	}
	if summary.Summary != "Cells are the smallest living units and contain organelles." {
		t.Errorf("Summary = %q", summary.Summary)
	}
	if len(summary.KeyPoints) != 5 {
		t.Errorf("got %d key points, want cap of 5", len(summary.KeyPoints))
	}
	if !strings.Contains(gen.prompts[0], "approximately 150 words") {
		t.Errorf("prompt missing short word target:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "focusing on aspects related to organelles") {
		t.Errorf("prompt missing focus clause:\n%s", gen.prompts[0])
	}
}

func TestSummarize_FallbackExtractsKeyPoints(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"The chapter covers cells.\nIt also covers organelles.\nfiller\nfiller",
		"- cells\n- organelles",
	}}
	s := NewService(gen)

	summary, err := s.Summarize(context.Background(), "chapter", "medium", "")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Status != parse.StatusDegraded {
		t.Errorf("Status = %s, want degraded", summary.Status)
	}
	if len(summary.KeyPoints) != 2 {
		t.Errorf("KeyPoints = %v, want the follow-up extraction", summary.KeyPoints)
	}
	if len(gen.prompts) != 2 || !strings.Contains(gen.prompts[1], "Extract 3-5 key points") {
		t.Errorf("expected key point follow-up call, prompts = %d", len(gen.prompts))
	}
}

func TestGenerateStudyGuide(t *testing.T) {
	t.Run("all sections", func(t *testing.T) {
		gen := &scriptedGenerator{responses: []string{
			"Key Concepts: mitosis and meiosis\n\nDefinitions: mitosis is cell division\n\nSummary: cells divide\n\nPractice Questions: 1. Define mitosis.",
		}}
		s := NewService(gen)

		guide, err := s.GenerateStudyGuide(context.Background(), "division chapter", nil)
		if err != nil {
			t.Fatalf("GenerateStudyGuide() error = %v", err)
		}
		if guide.Status != parse.StatusParsed {
			t.Errorf("Status = %s, want parsed", guide.Status)
		}
		if guide.Definitions != "mitosis is cell division" {
			t.Errorf("Definitions = %q", guide.Definitions)
		}
		if guide.Raw != "" {
			t.Errorf("Raw = %q, want empty", guide.Raw)
		}
	})

	t.Run("no sections keeps raw content", func(t *testing.T) {
		gen := &scriptedGenerator{responses: []string{"just an unstructured paragraph"}}
		s := NewService(gen)

		guide, err := s.GenerateStudyGuide(context.Background(), "chapter", []string{"mitosis"})
		if err != nil {
			t.Fatalf("GenerateStudyGuide() error = %v", err)
		}
		if guide.Status != parse.StatusFailed {
			t.Errorf("Status = %s, want failed", guide.Status)
		}
		if guide.Raw != "just an unstructured paragraph" {
			t.Errorf("Raw = %q", guide.Raw)
		}
		if !strings.Contains(gen.prompts[0], "focusing on these topics: mitosis") {
			t.Errorf("prompt missing topics:\n%s", gen.prompts[0])
		}
	})
}

func TestGenerateConceptMap(t *testing.T) {
	t.Run("parsed graph", func(t *testing.T) {
		gen := &scriptedGenerator{responses: []string{
			`{"nodes": [{"id": "1", "label": "Photosynthesis", "type": "main"}, {"id": "2", "label": "Chlorophyll", "type": "related"}], "edges": [{"from": "1", "to": "2", "label": "requires"}]}`,
		}}
		s := NewService(gen)

		graph, err := s.GenerateConceptMap(context.Background(), "bio notes", "Photosynthesis")
		if err != nil {
			t.Fatalf("GenerateConceptMap() error = %v", err)
		}
		if graph.Status != parse.StatusParsed {
			t.Errorf("Status = %s, want parsed", graph.Status)
		}
		if len(graph.Nodes) != 2 || len(graph.Edges) != 1 {
			t.Errorf("graph = %+v", graph)
		}
	})

	t.Run("fallback single node", func(t *testing.T) {
		gen := &scriptedGenerator{responses: []string{"no json at all"}}
		s := NewService(gen)

		graph, err := s.GenerateConceptMap(context.Background(), "notes", "Photosynthesis")
		if err != nil {
			t.Fatalf("GenerateConceptMap() error = %v", err)
		}
		if graph.Status != parse.StatusFailed {
			t.Errorf("Status = %s, want failed", graph.Status)
		}
		if len(graph.Nodes) != 1 || graph.Nodes[0].Label != "Photosynthesis" || graph.Nodes[0].Type != "main" {
			t.Errorf("fallback nodes = %+v", graph.Nodes)
		}
	})

	t.Run("empty concept rejected", func(t *testing.T) {
		s := NewService(&scriptedGenerator{})
		if _, err := s.GenerateConceptMap(context.Background(), "notes", ""); err == nil {
			t.Error("GenerateConceptMap() error = nil, want error")
		}
	})
}

func TestGenerateMCQs_GeneratorError(t *testing.T) {
	s := NewService(&scriptedGenerator{err: fmt.Errorf("rate limited")})
	if _, err := s.GenerateMCQs(context.Background(), "notes", 3, "medium"); err == nil {
		t.Fatal("GenerateMCQs() error = nil, want generation failure")
	}
}

func TestGeneratePronunciationGuide(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantStatus parse.Status
		wantTerms  int
	}{
		{
			name: "json object",
			response: `Here is the guide:
{"mitochondria": "my-toh-KON-dree-uh", "endoplasmic reticulum": "en-doh-PLAZ-mik reh-TIK-yoo-lum"}`,
			wantStatus: parse.StatusParsed,
			wantTerms:  2,
		},
		{
			name:       "no json object",
			response:   "I cannot identify any difficult terms.",
			wantStatus: parse.StatusFailed,
		},
		{
			name:       "non-string values rejected",
			response:   `{"mitochondria": 42}`,
			wantStatus: parse.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{responses: []string{tt.response}}
			s := NewService(gen)

			guide, err := s.GeneratePronunciationGuide(context.Background(), "The mitochondria and endoplasmic reticulum are organelles.")
			if err != nil {
				t.Fatalf("GeneratePronunciationGuide() error = %v", err)
			}
			if guide.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", guide.Status, tt.wantStatus)
			}
			if len(guide.Terms) != tt.wantTerms {
				t.Errorf("Terms = %v, want %d entries", guide.Terms, tt.wantTerms)
			}
			if !strings.Contains(gen.prompts[0], "pronunciation guides") {
				t.Error("prompt missing pronunciation instruction")
			}
		})
	}
}

func TestGeneratePronunciationGuide_GeneratorError(t *testing.T) {
	gen := &scriptedGenerator{err: fmt.Errorf("model overloaded")}
	s := NewService(gen)

	if _, err := s.GeneratePronunciationGuide(context.Background(), "text"); err == nil {
		t.Fatal("GeneratePronunciationGuide() error = nil, want generator failure")
	}
}
