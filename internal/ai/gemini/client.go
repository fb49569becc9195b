package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobradar/jobradar/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "gemini-embedding-001"
	defaultMaxRetries     = 3

	retryBase = 500 * time.Millisecond
)

// Client wraps the Google GenAI client for embeddings and structured
// extraction.
type Client struct {
	client         *genai.Client
	modelName      string
	embeddingModel string
	maxRetries     int
	logger         *zap.Logger
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model, embeddingModel string, maxRetries int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if embeddingModel = strings.TrimSpace(embeddingModel); embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		client:         client,
		modelName:      model,
		embeddingModel: embeddingModel,
		maxRetries:     maxRetries,
		logger:         logger,
	}, nil
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("gemini client is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	var values []float64
	err := c.withRetry(ctx, "embed content", func() error {
		resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
		if err != nil {
			return err
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return errors.New("gemini api returned empty embedding")
		}

		raw := resp.Embeddings[0].Values
		values = make([]float64, len(raw))
		for i, v := range raw {
			values[i] = float64(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// generateContent sends the prompt and returns the first textual response.
func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var output string
	err := c.withRetry(ctx, "generate content", func() error {
		resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
		if err != nil {
			return err
		}

		var builder strings.Builder
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				text := strings.TrimSpace(part.Text)
				if text == "" {
					continue
				}
				if builder.Len() > 0 {
					builder.WriteString("\n")
				}
				builder.WriteString(text)
			}
		}

		output = strings.TrimSpace(builder.String())
		if output == "" {
			return errors.New("gemini api returned empty response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return output, nil
}

// withRetry runs fn up to maxRetries times with doubling backoff.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := utils.WaitFor(ctx, retryBase<<(attempt-1)); err != nil {
				return err
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			c.logger.Debug("gemini call failed",
				zap.String("op", op),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", c.maxRetries),
				zap.Error(err),
			)
			continue
		}
		return nil
	}

	return fmt.Errorf("%s: after %d attempts: %w", op, c.maxRetries, lastErr)
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}
