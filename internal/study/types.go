// Package study generates study artifacts (quizzes, flashcards, summaries,
// study guides, concept maps) from document content via the model, parsing
// its free-form output into structured records.
package study

import "studymate/internal/parse"

// Question is one multiple-choice question.
type Question struct {
	// Question is the question text.
	Question string `json:"question"`
	// Options are the four answer options, prefixed "A." through "D.".
	Options []string `json:"options"`
	// CorrectAnswer is the letter of the correct option ("A"–"D").
	CorrectAnswer string `json:"correct_answer"`
	// Explanation says why the correct answer is correct.
	Explanation string `json:"explanation"`
}

// Quiz is a generated set of multiple-choice questions.
type Quiz struct {
	Questions []Question   `json:"questions"`
	Status    parse.Status `json:"status"`
}

// Flashcard is one front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is a generated deck of flashcards.
type FlashcardSet struct {
	Cards  []Flashcard  `json:"cards"`
	Status parse.Status `json:"status"`
}

// Summary is a generated document summary with key points.
type Summary struct {
	Summary   string       `json:"summary"`
	KeyPoints []string     `json:"key_points"`
	Status    parse.Status `json:"status"`
}

// Guide is a generated study guide with fixed sections. Raw carries the
// unparsed response when no section could be extracted.
type Guide struct {
	KeyConcepts       string       `json:"key_concepts,omitempty"`
	Definitions       string       `json:"definitions,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	PracticeQuestions string       `json:"practice_questions,omitempty"`
	Raw               string       `json:"raw_content,omitempty"`
	Status            parse.Status `json:"status"`
}

// Node is one concept in a concept map.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Type is "main" for the central concept, "related" otherwise.
	Type string `json:"type"`
}

// Edge is a labeled relationship between two concept nodes.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// ConceptMap is a generated graph of concepts around a main concept.
type ConceptMap struct {
	Nodes  []Node       `json:"nodes"`
	Edges  []Edge       `json:"edges"`
	Status parse.Status `json:"status"`
}
