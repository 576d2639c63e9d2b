package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"google.golang.org/api/option"
)

const systemInstruction = `You classify grocery products into supermarket aisles.
Answer with exactly one category name copied from the list you are given.
Do not explain, do not add punctuation, do not invent new categories.`

// ErrNoCategory the model answered with something outside the allowed list
var ErrNoCategory = errors.New("model did not return an allowed category")

// Client category suggester backed by Gemini
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewClient creates the Gemini client
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")

	// short, deterministic answers
	model.SetTemperature(0.1)
	model.SetTopK(10)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(32)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &Client{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3),
		delay:  350 * time.Millisecond,
	}, nil
}

// SuggestCategory asks the model for one of allowed
func (g *Client) SuggestCategory(ctx context.Context, product entity.Product, allowed []string) (string, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(product, allowed)))
	if err != nil {
		return "", fmt.Errorf("failed to generate suggestion: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	return matchCategory(extractText(resp), allowed)
}

func buildPrompt(product entity.Product, allowed []string) string {
	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, category := range allowed {
		b.WriteString("- ")
		b.WriteString(category)
		b.WriteString("\n")
	}
	b.WriteString("\nProduct: ")
	b.WriteString(product.Name)
	if product.GenericProduct != nil && product.GenericProduct.Name != "" {
		fmt.Fprintf(&b, " (%s)", product.GenericProduct.Name)
	}
	if product.Description != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(product.Description)
	}
	return b.String()
}

// matchCategory exact match first, then the first allowed name contained in the answer
func matchCategory(answer string, allowed []string) (string, error) {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), ".\"'`*"))
	for _, category := range allowed {
		if strings.ToLower(category) == cleaned {
			return category, nil
		}
	}
	for _, category := range allowed {
		if strings.Contains(cleaned, strings.ToLower(category)) {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoCategory, answer)
}

// extractText concatenates the text parts of every candidate
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}
	return result.String()
}

func (g *Client) acquire(ctx context.Context) (func(), error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.last.IsZero() {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
	}
	g.last = now

	return func() {
		<-g.sem
	}, nil
}

// Close releases the underlying connection
func (g *Client) Close() error {
	return g.client.Close()
}
