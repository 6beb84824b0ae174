// Package gemini implements the vault's AI capabilities on the Gemini API.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/models"
	"google.golang.org/genai"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultChatModel   = "gemini-2.5-pro"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// Config selects the models a Client uses.
type Config struct {
	APIKey      string
	TextModel   string
	ChatModel   string
	ImageModel  string
	SpeechModel string
	Voice       string

	// BaseURL overrides the API endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if c.TextModel == "" {
		c.TextModel = DefaultTextModel
	}
	if c.ChatModel == "" {
		c.ChatModel = DefaultChatModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.SpeechModel == "" {
		c.SpeechModel = DefaultSpeechModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
}

// Client is an ai.Capability backed by Gemini.
type Client struct {
	client *genai.Client
	cfg    Config
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required (set gemini.api_key or GEMINI_API_KEY)")
	}
	cfg.applyDefaults()

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, cfg: cfg}, nil
}

func userText(text string) *genai.Content {
	return &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}}
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with %s: %w", model, err)
	}
	return resp, nil
}

// SummarizeImport implements ai.Summarizer.
func (c *Client) SummarizeImport(ctx context.Context, raw string) (ai.ImportDraft, error) {
	resp, err := c.generate(ctx, c.cfg.TextModel, []*genai.Content{userText(ai.ImportPrompt(raw))}, &genai.GenerateContentConfig{
		SystemInstruction: userText(ai.ImportInstruction),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":   {Type: genai.TypeString},
				"content": {Type: genai.TypeString},
				"tags":    stringArraySchema(),
			},
			Required: []string{"title", "content", "tags"},
		},
	})
	if err != nil {
		return ai.ImportDraft{}, err
	}
	return ai.ParseImportDraft(resp.Text())
}

// Chat implements ai.Chatter, streaming the reply.
func (c *Client) Chat(ctx context.Context, req ai.ChatRequest, onChunk func(string)) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Text}}})
	}
	contents = append(contents, userText(req.Message))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: userText(ai.ChatSystemPrompt(req.Notes)),
	}

	var out strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.cfg.ChatModel, contents, cfg) {
		if err != nil {
			return "", fmt.Errorf("failed to stream chat with %s: %w", c.cfg.ChatModel, err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		out.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return out.String(), nil
}

// Research implements ai.Researcher with Google Search grounding.
func (c *Client) Research(ctx context.Context, query, vaultContext string) (models.GroundedResult, error) {
	resp, err := c.generate(ctx, c.cfg.TextModel, []*genai.Content{userText(ai.ResearchPrompt(query, vaultContext))}, &genai.GenerateContentConfig{
		SystemInstruction: userText(ai.ResearchInstruction),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return models.GroundedResult{}, err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		text = "No findings found."
	}
	return models.GroundedResult{Text: text, Sources: groundingSources(resp)}, nil
}

func groundingSources(resp *genai.GenerateContentResponse) []models.Source {
	sources := []models.Source{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return sources
	}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		src := models.Source{Title: "Source"}
		if chunk != nil && chunk.Web != nil {
			if chunk.Web.Title != "" {
				src.Title = chunk.Web.Title
			}
			src.URI = chunk.Web.URI
		}
		sources = append(sources, src)
	}
	return sources
}

// SmartLookup implements ai.Searcher.
func (c *Client) SmartLookup(ctx context.Context, query string, notes []models.Note) (ai.Lookup, error) {
	resp, err := c.generate(ctx, c.cfg.TextModel, []*genai.Content{userText(ai.LookupPrompt(query, notes))}, &genai.GenerateContentConfig{
		SystemInstruction: userText(ai.LookupInstruction),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary":     {Type: genai.TypeString},
				"relevantIds": stringArraySchema(),
			},
			Required: []string{"summary", "relevantIds"},
		},
	})
	if err != nil {
		return ai.Lookup{}, err
	}
	return ai.ParseLookup(resp.Text())
}

// GenerateVisual implements ai.Illustrator. The image is returned as a data URL.
func (c *Client) GenerateVisual(ctx context.Context, title, content string) (string, error) {
	resp, err := c.generate(ctx, c.cfg.ImageModel, []*genai.Content{userText(ai.VisualPrompt(title, content))}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", err
	}
	blob := firstInlineData(resp)
	if blob == nil {
		return "", nil
	}
	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
}

// SynthesizeBriefing implements ai.Narrator. It returns 24kHz mono 16-bit PCM.
func (c *Client) SynthesizeBriefing(ctx context.Context, notes []models.Note) ([]byte, error) {
	resp, err := c.generate(ctx, c.cfg.SpeechModel, []*genai.Content{userText(ai.BriefingInstruction + "\n\n" + ai.BriefingScript(notes))}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("%w: no audio returned", ai.ErrMalformedResponse)
	}
	return blob.Data, nil
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}
