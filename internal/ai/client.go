package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Message is one instruction or conversation turn handed to the
// completion service. Roles are "system", "user" and "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the black-box text-generation service. maxTokens <= 0
// means "no explicit output cap".
type Completer interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Unavailable is a Completer for deployments without an API key. Canned
// template paths keep working; free-form turns fail cleanly.
type Unavailable struct{}

func (Unavailable) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	return "", fmt.Errorf("completion service not configured")
}

// GeminiClient talks to the Gemini API through the official SDK. A
// semaphore bounds concurrent outbound calls so a burst of chat requests
// cannot cascade into provider rate limits.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	sem       chan struct{}
}

// NewGeminiClient creates a new Gemini completion client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, maxConcurrent int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		sem:       make(chan struct{}, maxConcurrent),
	}, nil
}

// Close closes the underlying connection.
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Complete sends the composed turns to Gemini and returns the generated
// text. System turns become the system instruction; the rest become chat
// history, with the final user turn as the actual message.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var system []string
	var turns []Message
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
		} else {
			turns = append(turns, m)
		}
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != "user" {
		return "", fmt.Errorf("completion request must end with a user turn")
	}

	// The model handle is per-call: generation config and system
	// instruction must not race between concurrent requests.
	model := c.client.GenerativeModel(c.modelName)
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n\n"))},
		}
	}
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	session := model.StartChat()
	for _, t := range turns[:len(turns)-1] {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(text.String()), nil
}
