package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text    string
	err     error
	resp    *genai.GenerateContentResponse
	model   string
	prompts []string
	configs []*genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	f.configs = append(f.configs, config)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return textResponse(f.text), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGenerateClarifyingQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"wrapped object", `{"questions": ["What ERP system?", "What currency?"]}`, []string{"What ERP system?", "What currency?"}},
		{"bare array", `["One?", "Two?"]`, []string{"One?", "Two?"}},
		{"fenced", "```json\n{\"questions\": [\"Fenced?\"]}\n```", []string{"Fenced?"}},
		{"blank entries dropped", `{"questions": ["  ", "Real?"]}`, []string{"Real?"}},
		{"empty list is valid", `{"questions": []}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := &fakeModels{text: tt.text}
			c := newClient(fm, Config{})

			got, err := c.GenerateClarifyingQuestions(context.Background(), "Automate invoices", `{"nodes":[]}`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, DefaultModel, fm.model)
			require.NotNil(t, fm.configs[0])
			assert.Equal(t, "application/json", fm.configs[0].ResponseMIMEType)
			assert.Contains(t, fm.prompts[0], "Automate invoices")
			assert.Contains(t, fm.prompts[0], `{"nodes":[]}`)
		})
	}
}

func TestGenerateExecutionPlan(t *testing.T) {
	fm := &fakeModels{text: `{"steps": ["Validate input", "Call ERP API", "Format output"]}`}
	c := newClient(fm, Config{Model: "gemini-2.5-pro"})

	form := wizard.NewFormState()
	form.BuildIntent = "Automate invoice processing"
	form.AIQuestions = []string{"How often?"}
	form.UserAnswers = map[int]string{0: "daily"}

	got, err := c.GenerateExecutionPlan(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, []string{"Validate input", "Call ERP API", "Format output"}, got)
	assert.Equal(t, "gemini-2.5-pro", fm.model)
	assert.Contains(t, fm.prompts[0], "A1: daily")
	assert.Contains(t, fm.prompts[0], "- Role / Identity")
}

func TestGenerateFinalSystemPrompt(t *testing.T) {
	fm := &fakeModels{text: "```markdown\n# Role\nYou are an agent.\n```"}
	c := newClient(fm, Config{})

	got, err := c.GenerateFinalSystemPrompt(context.Background(), wizard.NewFormState())
	require.NoError(t, err)
	assert.Equal(t, "# Role\nYou are an agent.", got)
	assert.Nil(t, fm.configs[0], "final prompt is requested as plain text")
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	c := newClient(&fakeModels{err: errors.New("quota exceeded")}, Config{})
	_, err := c.GenerateClarifyingQuestions(ctx, "x", "")
	assert.ErrorContains(t, err, "quota exceeded")

	c = newClient(&fakeModels{resp: &genai.GenerateContentResponse{}}, Config{})
	_, err = c.GenerateFinalSystemPrompt(ctx, wizard.FormState{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	c = newClient(&fakeModels{text: "not json"}, Config{})
	_, err = c.GenerateExecutionPlan(ctx, wizard.FormState{})
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestClientFailureSurfacesAsGenerationError(t *testing.T) {
	c := newClient(&fakeModels{text: "{"}, Config{})
	ctrl := wizard.NewController(c)

	res := ctrl.Advance(context.Background())
	require.Error(t, res.Err())
	assert.True(t, wizard.IsGenerationError(res.Err()))
	assert.ErrorIs(t, res.Err(), ErrInvalidJSON)
	assert.Equal(t, wizard.StepInitialDetails, ctrl.Step())
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"```\n[1]\n```", "[1]"},
		{"```json\n{\"steps\": []}\n```\n", `{"steps": []}`},
		{"  ```\n[1]\n\n```  ", "[1]"},
		{"```\n[1]", "[1]"},
		{"```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFence(tt.in), "input %q", tt.in)
	}
}
