package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	getErr   error
	gotModel string
	gotText  string
}

func (f *fakeModels) GenerateContent(
	_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotText = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func (f *fakeModels) Get(_ context.Context, _ string, _ *genai.GetModelConfig) (*genai.Model, error) {
	return &genai.Model{}, f.getErr
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 12, TotalTokenCount: 20},
	}
}

func TestGenerate_ReturnsText(t *testing.T) {
	fm := &fakeModels{resp: textResponse("```json\n{}\n```")}
	g := newGenerator(fm, &Config{Model: "gemini-1.5-flash"})

	res, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "```json\n{}\n```" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.PromptTokens != 12 || res.TotalTokens != 20 {
		t.Errorf("tokens = %d/%d, want 12/20", res.PromptTokens, res.TotalTokens)
	}
	if fm.gotModel != "gemini-1.5-flash" || fm.gotText != "hello" {
		t.Errorf("request model=%q text=%q", fm.gotModel, fm.gotText)
	}
}

func TestGenerate_DefaultModel(t *testing.T) {
	fm := &fakeModels{resp: textResponse("{}")}
	g := newGenerator(fm, &Config{})
	if _, err := g.Generate(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm.gotModel != "gemini-2.0-flash" {
		t.Errorf("model = %q, want default", fm.gotModel)
	}
}

func TestGenerate_EmptyText(t *testing.T) {
	g := newGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, &Config{})
	_, err := g.Generate(context.Background(), "x")
	if !errors.Is(err, domain.ErrGeneratorError) {
		t.Errorf("expected ErrGeneratorError, got %v", err)
	}
}

func TestGenerate_APIErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"rate limited", genai.APIError{Code: 429, Message: "quota"}, domain.ErrRateLimited},
		{"server error", genai.APIError{Code: 500, Message: "boom"}, domain.ErrGeneratorError},
		{"timeout", context.DeadlineExceeded, domain.ErrGeneratorError},
		{"other", errors.New("dial tcp"), domain.ErrGeneratorError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGenerator(&fakeModels{err: tc.err}, &Config{})
			_, err := g.Generate(context.Background(), "x")
			if !errors.Is(err, tc.target) {
				t.Errorf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestGenerate_TransportErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	g := newGenerator(&fakeModels{err: cause}, &Config{})

	_, err := g.Generate(context.Background(), "x")

	if !errors.Is(err, cause) {
		t.Errorf("expected cause in chain, got %v", err)
	}
	if !errors.Is(err, domain.ErrGeneratorError) {
		t.Errorf("expected ErrGeneratorError, got %v", err)
	}

	g = newGenerator(&fakeModels{err: context.DeadlineExceeded}, &Config{})
	if _, err := g.Generate(context.Background(), "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	if err := newGenerator(&fakeModels{}, &Config{}).HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	g := newGenerator(&fakeModels{getErr: errors.New("403")}, &Config{})
	if err := g.HealthCheck(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestNewGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), &Config{}); err == nil {
		t.Error("expected error without api key")
	}
}
