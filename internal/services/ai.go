package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// TaskDraft is a suggested task that the user can turn into a real one.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskDrafter turns free text into task suggestions.
type TaskDrafter interface {
	DraftTasksFromText(ctx context.Context, text string) ([]TaskDraft, error)
}

type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftTasksFromText extracts task drafts from text using OpenAI chat completion
func (s *AIService) DraftTasksFromText(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You extract actionable tasks from notes.

Text:
%s

Return a JSON array of tasks in this shape:
[
  {
    "title": "short task title (at most 100 characters)",
    "description": "details of the task"
  }
]

Rules:
- Return [] when the text contains no tasks
- Return JSON only, without any explanation`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

// parseDrafts decodes the model output, tolerating a fenced code block.
func parseDrafts(content string) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return drafts, nil
}
