package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/models"
)

const (
	// DefaultModel is the recommended embedding model
	DefaultModel = "nomic-embed-text"
	// DefaultChatModel answers chat, import and lookup requests
	DefaultChatModel = "llama3.2"
	// DefaultURL is the default Ollama API endpoint
	DefaultURL = "http://localhost:11434"
)

// Client talks to a local Ollama server. It embeds with one model and
// generates text with another.
type Client struct {
	client    *api.Client
	model     string
	chatModel string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	chatModel  string
	httpClient *http.Client
}

// WithChatModel sets the model used for text generation.
func WithChatModel(model string) Option {
	return func(o *clientOptions) {
		o.chatModel = model
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// NewClient creates a new Ollama client for the server at url.
func NewClient(rawURL, model string, opts ...Option) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	o := clientOptions{chatModel: DefaultChatModel, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	if o.chatModel == "" {
		o.chatModel = DefaultChatModel
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama url: %w", err)
	}

	return &Client{
		client:    api.NewClient(base, o.httpClient),
		model:     model,
		chatModel: o.chatModel,
	}, nil
}

// IsAvailable checks if Ollama is running and accessible
func IsAvailable(url string) bool {
	if url == "" {
		url = DefaultURL
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// GenerateEmbedding generates an embedding vector for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := make([]float64, len(resp.Embeddings[0]))
	for i, v := range resp.Embeddings[0] {
		embedding[i] = float64(v)
	}

	return embedding, nil
}

// Embed implements ai.Embedder.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	return c.GenerateEmbedding(ctx, text)
}

// CheckModel checks that both configured models are pulled.
func (c *Client) CheckModel(ctx context.Context) error {
	listResp, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, want := range []string{c.model, c.chatModel} {
		found := false
		for _, m := range listResp.Models {
			if m.Name == want || strings.TrimSuffix(m.Name, ":latest") == want {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("model '%s' not found - run: ollama pull %s", want, want)
		}
	}

	return nil
}

// GetModel returns the embedding model being used
func (c *Client) GetModel() string {
	return c.model
}

// GetChatModel returns the text generation model being used
func (c *Client) GetChatModel() string {
	return c.chatModel
}

func (c *Client) chat(ctx context.Context, system string, messages []api.Message, schema any, onChunk func(string)) (string, error) {
	msgs := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: system})
	}
	msgs = append(msgs, messages...)

	stream := onChunk != nil
	req := &api.ChatRequest{
		Model:    c.chatModel,
		Messages: msgs,
		Stream:   &stream,
	}
	if schema != nil {
		format, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("failed to encode response schema: %w", err)
		}
		req.Format = format
	}

	var out strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		if onChunk != nil && resp.Message.Content != "" {
			onChunk(resp.Message.Content)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to chat with %s: %w", c.chatModel, err)
	}
	return out.String(), nil
}

// SummarizeImport implements ai.Summarizer.
func (c *Client) SummarizeImport(ctx context.Context, raw string) (ai.ImportDraft, error) {
	text, err := c.chat(ctx, ai.ImportInstruction, []api.Message{
		{Role: "user", Content: ai.ImportPrompt(raw)},
	}, ai.ImportSchema, nil)
	if err != nil {
		return ai.ImportDraft{}, err
	}
	return ai.ParseImportDraft(text)
}

// Chat implements ai.Chatter.
func (c *Client) Chat(ctx context.Context, req ai.ChatRequest, onChunk func(string)) (string, error) {
	messages := make([]api.Message, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, api.Message{Role: string(m.Role), Content: m.Text})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Message})

	return c.chat(ctx, ai.ChatSystemPrompt(req.Notes), messages, nil, onChunk)
}

// Research implements ai.Researcher. Ollama has no search grounding, so the
// report is synthesized from the vault alone and carries no sources.
func (c *Client) Research(ctx context.Context, query, vaultContext string) (models.GroundedResult, error) {
	text, err := c.chat(ctx, ai.ResearchInstruction, []api.Message{
		{Role: "user", Content: ai.ResearchPrompt(query, vaultContext)},
	}, nil, nil)
	if err != nil {
		return models.GroundedResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		text = "No findings found."
	}
	return models.GroundedResult{Text: text, Sources: []models.Source{}}, nil
}

// SmartLookup implements ai.Searcher.
func (c *Client) SmartLookup(ctx context.Context, query string, notes []models.Note) (ai.Lookup, error) {
	text, err := c.chat(ctx, ai.LookupInstruction, []api.Message{
		{Role: "user", Content: ai.LookupPrompt(query, notes)},
	}, ai.LookupSchema, nil)
	if err != nil {
		return ai.Lookup{}, err
	}
	return ai.ParseLookup(text)
}

// GenerateVisual is not available on Ollama.
func (c *Client) GenerateVisual(ctx context.Context, title, content string) (string, error) {
	return "", ai.ErrUnsupported
}

// SynthesizeBriefing is not available on Ollama.
func (c *Client) SynthesizeBriefing(ctx context.Context, notes []models.Note) ([]byte, error) {
	return nil, ai.ErrUnsupported
}
