package nearbite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

func TestNew_RequiresPlacesKey(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without places key")
	}
	if !strings.Contains(err.Error(), "WithPlacesAPIKey") {
		t.Errorf("error = %q, want hint about WithPlacesAPIKey", err)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(),
		WithPlacesAPIKey("k"),
		optionFunc(func(c *clientConfig) { c.generatorProvider = "bogus" }),
	)
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	_, err := New(context.Background(), WithPlacesAPIKey("k"), WithOpenAI("", "", ""))
	if err == nil {
		t.Fatal("expected error for missing openai key")
	}
}

func TestNew_GeminiRequiresKey(t *testing.T) {
	_, err := New(context.Background(), WithPlacesAPIKey("k"), WithGemini("", ""))
	if err == nil {
		t.Fatal("expected error for missing gemini key")
	}
}

func TestNew_WithOpenAI(t *testing.T) {
	c, err := New(context.Background(),
		WithPlacesAPIKey("k"),
		WithOpenAI("sk-test", "http://127.0.0.1:1/v1", ""),
		WithClassification(5, 2),
		WithDetailWorkers(3),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.discoverySvc == nil || c.classifySvc == nil || c.geocodeSvc == nil || c.healthSvc == nil {
		t.Fatal("client not fully wired")
	}
}

func TestNew_WithoutGenerator_HealthHasNoChecks(t *testing.T) {
	c, err := New(context.Background(), WithPlacesAPIKey("k"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	if len(h.Checks) != 0 {
		t.Errorf("checks = %v, want none", h.Checks)
	}
}

func TestNew_CustomGeneratorHealth(t *testing.T) {
	gen := &fakeGenerator{probeErr: errors.New("down")}
	c, err := New(context.Background(), WithPlacesAPIKey("k"), WithGenerator(gen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["generator"] != "error" {
		t.Errorf("generator check = %q, want error", h.Checks["generator"])
	}

	gen.probeErr = nil
	h = c.Health(context.Background())
	if h.Status != "ok" || h.Checks["generator"] != "ok" {
		t.Errorf("health = %+v, want ok", h)
	}
}

func TestGeneratorAdapter(t *testing.T) {
	a := &generatorAdapter{inner: &fakeGenerator{text: "{}"}}
	r, err := a.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := domain.GenerationResult{Text: "{}", PromptTokens: 3, TotalTokens: 7}
	if r != want {
		t.Errorf("result = %+v, want %+v", r, want)
	}

	boom := errors.New("boom")
	a = &generatorAdapter{inner: &fakeGenerator{err: boom}}
	if _, err := a.Generate(context.Background(), "p"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
}

func TestGeneratorAdapter_HealthWithoutProbe(t *testing.T) {
	a := &generatorAdapter{inner: plainGenerator{}}
	if err := a.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck = %v, want nil", err)
	}
}

func TestNoopGenerator(t *testing.T) {
	_, err := noopGenerator{}.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("error = %v, want not configured", err)
	}
}
