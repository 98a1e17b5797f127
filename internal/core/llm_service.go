package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/opsdesk/opsdesk/internal/config"
	"github.com/opsdesk/opsdesk/internal/ingest"
	"github.com/opsdesk/opsdesk/internal/store"
	"github.com/opsdesk/opsdesk/internal/utils"
)

const (
	defaultChatModelName  = "gemini-1.5-flash-latest"
	defaultTitleModelName = "gemini-1.5-flash-latest"

	// Low temperature for factual answers over the provided dataset.
	answerTemperature = 0.2
	titleTemperature  = 0.5
	titleMaxTokens    = 20
)

// AnswerEngine is the external text-generation collaborator. The hosted
// Gemini implementation below satisfies it; tests substitute a scripted one.
type AnswerEngine interface {
	// GenerateAnswer answers message grounded on data, with history as the
	// prior turns of the conversation.
	GenerateAnswer(ctx context.Context, message string, history []store.Message, data *ingest.AppData) (string, error)
	// GenerateTitle derives a short (3-6 word) session title from the first
	// user message.
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (s *LLMService) GenerateAnswer(ctx context.Context, message string, history []store.Message, data *ingest.AppData) (string, error) {
	model := s.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildSystemContext(data))},
	}

	temp := float32(answerTemperature)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
	}

	chatSession := model.StartChat()
	chatSession.History = recentTurns(history, config.AppConfig.HistoryWindow)

	resp, err := chatSession.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	text := candidateText(resp)
	if text == "" {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "I processed the request but received no text response.", nil
	}
	return text, nil
}

func (s *LLMService) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	model := s.client.GenerativeModel(defaultTitleModelName)

	temp := float32(titleTemperature)
	maxTokens := int32(titleMaxTokens)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Generate a very concise (3-6 words) title for a chat session that starts with this query: %q. Do not use quotes. Return only the title text.", firstMessage)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini title generation request failed: %w", err)
	}

	title := utils.StripQuotes(strings.TrimSpace(candidateText(resp)))
	if title == "" {
		return "", fmt.Errorf("LLM generated an empty title string")
	}
	return title, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return text.String()
}
