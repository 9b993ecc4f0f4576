package predict

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModels maps the variants offered in the UI to model names.
var DefaultModels = map[string]string{
	"flash": "gemini-2.5-flash",
	"pro":   "gemini-2.5-pro",
}

// GeminiClient calls generateContent with an inline image and a prompt.
type GeminiClient struct {
	client *genai.Client
	models map[string]string
	log    *slog.Logger
}

// GeminiOptions configure a GeminiClient; zero values pick defaults.
type GeminiOptions struct {
	// BaseURL overrides the Gemini API host, mostly for tests.
	BaseURL string
	Models  map[string]string
	Timeout time.Duration
}

// NewGeminiClient creates a client for apiKey.
func NewGeminiClient(ctx context.Context, apiKey string, opts GeminiOptions) (*GeminiClient, error) {
	if len(opts.Models) == 0 {
		opts.Models = DefaultModels
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL: opts.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		models: opts.Models,
		log:    slog.Default().With("component", "predict"),
	}, nil
}

// Model returns the model name a variant maps to.
func (c *GeminiClient) Model(variant string) (string, error) {
	m, ok := c.models[variant]
	if !ok {
		return "", &Error{Code: "INVALID_ARGUMENT", Message: fmt.Sprintf("unknown model variant %q", variant)}
	}
	return m, nil
}

// Predict sends the image and prompt and returns the model's text. It is
// attempted once.
func (c *GeminiClient) Predict(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	model, err := c.Model(req.Variant)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, &Error{Code: "INVALID_ARGUMENT", Message: "image data is not base64: " + err.Error()}
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, req.MIMEType),
		genai.NewPartFromText(req.Prompt),
	}, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &Error{Status: apiErr.Code, Code: apiErr.Status, Message: strings.TrimSpace(apiErr.Message)}
		}
		return nil, &Error{Message: err.Error()}
	}
	if len(resp.Candidates) == 0 {
		return nil, &Error{Message: "model returned no candidates"}
	}

	text := resp.Text()
	c.log.Debug("prediction received", "model", model, "chars", len(text), "took", time.Since(start).Round(time.Millisecond))
	return &Response{
		Text:     text,
		Model:    model,
		Duration: time.Since(start),
	}, nil
}
