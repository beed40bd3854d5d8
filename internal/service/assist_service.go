package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"stem-buddy/internal/domain"
	"stem-buddy/internal/llm"
)

// Flashcard is one question/answer pair generated from study notes.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AssistService backs the single-shot study tools: flashcards, summaries,
// study plans and the memoryless chatbot. Each is one provider call with no
// session state.
type AssistService struct {
	llmClient llm.Client
}

func NewAssistService(llmClient llm.Client) *AssistService {
	return &AssistService{llmClient: llmClient}
}

// Flashcards generates question/answer cards from free-form notes.
func (s *AssistService) Flashcards(ctx context.Context, notes string) ([]Flashcard, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, fmt.Errorf("%w: notes are required", domain.ErrInvalidInput)
	}

	raw, err := s.complete(ctx, flashcardsPreamble,
		"Create flashcards from these notes: "+notes,
		llm.Options{Temperature: 0.7, MaxTokens: 2000},
	)
	if err != nil {
		return nil, err
	}

	return parseFlashcards(raw), nil
}

// Summarize condenses academic text into a structured summary.
func (s *AssistService) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	return s.complete(ctx, summaryPreamble,
		"Summarize this text: "+text,
		llm.Options{Temperature: 0.3, MaxTokens: 1500},
	)
}

// StudyPlan builds a day-by-day plan for an exam date and topic list.
func (s *AssistService) StudyPlan(ctx context.Context, examDate, topics string) (string, error) {
	examDate = strings.TrimSpace(examDate)
	topics = strings.TrimSpace(topics)
	if examDate == "" || topics == "" {
		return "", fmt.Errorf("%w: exam date and topics are required", domain.ErrInvalidInput)
	}
	return s.complete(ctx, studyPlanPreamble,
		fmt.Sprintf("Create a study plan for an exam on %s covering these topics: %s", examDate, topics),
		llm.Options{Temperature: 0.3, MaxTokens: 2000},
	)
}

// Answer handles the one-shot chatbot. Same persona as the session tutor,
// no memory.
func (s *AssistService) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	return s.complete(ctx, TutorPreamble, question,
		llm.Options{Temperature: 0.7, MaxTokens: 1000},
	)
}

func (s *AssistService) complete(ctx context.Context, preamble, userContent string, opts llm.Options) (string, error) {
	messages := []llm.Message{
		{Role: domain.RoleSystem, Content: preamble},
		{Role: domain.RoleUser, Content: userContent},
	}
	result, err := s.llmClient.Complete(ctx, messages, opts)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return result, nil
}

var numberedPrefix = regexp.MustCompile(`^\d+\.?\s*`)

// parseFlashcards expects a JSON array of {question, answer} objects but
// tolerates prose around it. When no parsable array is present it pairs up
// non-empty lines as question/answer.
func parseFlashcards(raw string) []Flashcard {
	if arr := extractFirstJSONArray(raw); arr != "" {
		var cards []Flashcard
		if json.Unmarshal([]byte(arr), &cards) == nil && len(cards) > 0 {
			return cards
		}
	}

	var cards []Flashcard
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	for i := 0; i+1 < len(lines); i += 2 {
		question := numberedPrefix.ReplaceAllString(lines[i], "")
		question = strings.TrimPrefix(question, "Q: ")
		answer := strings.TrimPrefix(lines[i+1], "A: ")
		cards = append(cards, Flashcard{Question: question, Answer: answer})
	}
	return cards
}
