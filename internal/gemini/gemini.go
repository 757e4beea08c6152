// Package gemini implements the wizard gateway on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/template"
	"github.com/mark3labs/promptsmith/internal/wizard"
	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model produced no candidate text.
	ErrEmptyResponse = errors.New("gemini: empty response from model")
	// ErrInvalidJSON is returned when a structured response cannot be decoded.
	ErrInvalidJSON = errors.New("gemini: invalid JSON from model")
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the subset of genai.Models used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey       string // falls back to GEMINI_API_KEY / GOOGLE_API_KEY when empty
	Model        string
	TemplatesDir string // optional overrides for the request templates
}

// Client is a wizard.Gateway backed by Gemini.
type Client struct {
	models       contentGenerator
	model        string
	templatesDir string
}

var _ wizard.Gateway = (*Client)(nil)

// New creates a Gemini client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newClient(cli.Models, cfg), nil
}

func newClient(models contentGenerator, cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model, templatesDir: cfg.TemplatesDir}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

type planResponse struct {
	Steps []string `json:"steps"`
}

// GenerateClarifyingQuestions asks the model what it needs to know.
func (c *Client) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	form := wizard.FormState{BuildIntent: intent, WorkflowJSON: workflowJSON}
	prompt, err := template.Build(c.templatesDir, template.KindQuestions, form)
	if err != nil {
		return nil, err
	}
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	var resp questionsResponse
	list, err := decodeList(text, &resp, func() []string { return resp.Questions })
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GenerateExecutionPlan asks the model for the outline of the final prompt.
func (c *Client) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	prompt, err := template.Build(c.templatesDir, template.KindPlan, form)
	if err != nil {
		return nil, err
	}
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	var resp planResponse
	return decodeList(text, &resp, func() []string { return resp.Steps })
}

// GenerateFinalSystemPrompt asks the model for the finished prompt.
func (c *Client) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	prompt, err := template.Build(c.templatesDir, template.KindFinal, form)
	if err != nil {
		return "", err
	}
	text, err := c.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stripFence(text)), nil
}

func (c *Client) generate(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	var cfg *genai.GenerateContentConfig
	if wantJSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	logger.Debug("gemini request (%s): %d bytes", c.model, len(prompt))
	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	logger.Debug("gemini response (%s): %d bytes", c.model, len(text))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// decodeList accepts either the wrapped object form or a bare JSON array.
func decodeList(text string, wrapped any, field func() []string) ([]string, error) {
	body := strings.TrimSpace(stripFence(text))
	if strings.HasPrefix(body, "[") {
		var list []string
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return clean(list), nil
	}
	if err := json.Unmarshal([]byte(body), wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return clean(field()), nil
}

func clean(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return text
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = ""
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
