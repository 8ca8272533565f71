package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

var (
	ErrGenerationFailed = errors.New("failed to generate content")
	ErrEmbeddingFailed  = errors.New("failed to generate embedding")
)

const (
	embeddingAPI   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	defaultModel   = "gemini-2.5-pro"
	maxRetries     = 3
	initialBackoff = time.Second

	// Prompts beyond this are cut before the API call to stay inside
	// the model context window.
	maxPromptChars = 30000
)

// GeminiCompletion implements CompletionClient on the Gemini API
type GeminiCompletion struct {
	client *genai.Client
	model  string
	log    *zap.SugaredLogger
}

// GeminiCompletionOption is a functional option for GeminiCompletion
type GeminiCompletionOption func(*GeminiCompletion)

// CompletionWithModel overrides the generation model name
func CompletionWithModel(model string) GeminiCompletionOption {
	return func(g *GeminiCompletion) {
		g.model = model
	}
}

// CompletionWithLogger sets the logger
func CompletionWithLogger(log *zap.SugaredLogger) GeminiCompletionOption {
	return func(g *GeminiCompletion) {
		g.log = log
	}
}

// NewGeminiCompletion creates a completion client backed by a Gemini client
func NewGeminiCompletion(client *genai.Client, opts ...GeminiCompletionOption) *GeminiCompletion {
	g := &GeminiCompletion{
		client: client,
		model:  defaultModel,
		log:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete generates text for the given messages with retry and
// exponential backoff. The first system-role message becomes the model
// system instruction; remaining messages are concatenated as the prompt.
func (g *GeminiCompletion) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client not set")
	}

	var system string
	var userParts []string
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem && system == "" {
			system = msg.Content
			continue
		}
		userParts = append(userParts, msg.Content)
	}
	prompt := strings.Join(userParts, "\n\n")
	if truncated := truncatePrompt(prompt); truncated != prompt {
		g.log.Warnw("prompt too long, truncating", "chars", len([]rune(prompt)), "limit", maxPromptChars)
		prompt = truncated
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			g.log.Warnw("generation attempt failed", "attempt", attempt+1, "error", err)
			continue
		}

		text := collectText(resp)
		if text != "" {
			return text, nil
		}
		lastErr = ErrGenerationFailed
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, lastErr)
	}
	return "", ErrGenerationFailed
}

// truncatePrompt caps the prompt at maxPromptChars runes. Cutting on a
// rune boundary keeps multibyte text valid UTF-8.
func truncatePrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= maxPromptChars {
		return prompt
	}
	return string(runes[:maxPromptChars]) + "\n\n[이하 생략]"
}

// collectText concatenates all text parts of all candidates
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return builder.String()
}

// GeminiEmbedding implements EmbeddingClient against the embedding REST
// endpoint (the Go SDK does not expose output dimensionality)
type GeminiEmbedding struct {
	apiKey     string
	httpClient *http.Client
	dimensions int
	log        *zap.SugaredLogger
}

// NewGeminiEmbedding creates an embedding client
func NewGeminiEmbedding(apiKey string, log *zap.SugaredLogger) *GeminiEmbedding {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GeminiEmbedding{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dimensions: 768,
		log:        log,
	}
}

type embeddingRequest struct {
	Model                string       `json:"model"`
	Content              contentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

type contentInput struct {
	Parts []partInput `json:"parts"`
}

type partInput struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// EmbedQuery generates a normalized retrieval-query embedding with retry
func (g *GeminiEmbedding) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if g.apiKey == "" {
		return nil, errors.New("gemini api key not set")
	}

	reqBody := embeddingRequest{
		Model: "models/gemini-embedding-001",
		Content: contentInput{
			Parts: []partInput{{Text: text}},
		},
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: g.dimensions,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", embeddingAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp embeddingResponse
			err := json.NewDecoder(resp.Body).Decode(&apiResp)
			resp.Body.Close()
			if err != nil {
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			return normalize(apiResp.Embedding.Values), nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("embedding API error: %d", resp.StatusCode)
		}
		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("embedding API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}

// normalize scales an embedding to unit length
func normalize(embedding []float64) []float64 {
	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}
	return embedding
}
