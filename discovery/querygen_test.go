package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/peerscope/ai/mock"
	"github.com/stretchr/testify/assert"
)

func TestFallbackQueries(t *testing.T) {
	queries := FallbackQueries("Acme Corp")
	assert.Equal(t, []string{
		"Acme Corp",
		"Acme Corp competitors",
		"companies like Acme Corp",
		"Acme Corp similar businesses",
	}, queries)
}

func TestQueryGenerator_NilProviderUsesFallback(t *testing.T) {
	g := NewQueryGenerator(nil)
	queries := g.Generate(context.Background(), "Acme Corp", "ddg", "")
	assert.Equal(t, FallbackQueries("Acme Corp"), queries)
}

func TestQueryGenerator_ParsesProviderOutput(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
		return `["Acme Corp competitors 2025", "companies similar to Acme Corp"]`, nil
	}

	g := NewQueryGenerator(generator)
	queries := g.Generate(context.Background(), "Acme Corp", "ddg", "")
	assert.Equal(t, []string{
		"Acme Corp competitors 2025",
		"companies similar to Acme Corp",
	}, queries)
}

func TestQueryGenerator_StripsCodeFences(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
		return "```json\n[\"Acme rivals\"]\n```", nil
	}

	g := NewQueryGenerator(generator)
	assert.Equal(t, []string{"Acme rivals"}, g.Generate(context.Background(), "Acme Corp", "ddg", ""))
}

func TestQueryGenerator_CapsAtThreeQueries(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
		return `["a", "b", "c", "d", "e"]`, nil
	}

	g := NewQueryGenerator(generator)
	assert.Equal(t, []string{"a", "b", "c"}, g.Generate(context.Background(), "Acme Corp", "ddg", ""))
}

func TestQueryGenerator_FailsSoft(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		generator := mock.NewMockTextGenerator()
		generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
			return "", errors.New("connection refused")
		}
		g := NewQueryGenerator(generator)
		assert.Equal(t, FallbackQueries("Acme Corp"), g.Generate(context.Background(), "Acme Corp", "ddg", ""))
	})

	t.Run("malformed output", func(t *testing.T) {
		generator := mock.NewMockTextGenerator()
		generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
			return "sure! here are some queries:", nil
		}
		g := NewQueryGenerator(generator)
		assert.Equal(t, FallbackQueries("Acme Corp"), g.Generate(context.Background(), "Acme Corp", "ddg", ""))
	})

	t.Run("only empty strings", func(t *testing.T) {
		generator := mock.NewMockTextGenerator()
		generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
			return `["", "  "]`, nil
		}
		g := NewQueryGenerator(generator)
		assert.Equal(t, FallbackQueries("Acme Corp"), g.Generate(context.Background(), "Acme Corp", "ddg", ""))
	})
}

func TestQueryGenerator_PromptNamesCompanyAndTool(t *testing.T) {
	var captured string
	generator := mock.NewMockTextGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
		captured = prompt
		return `["q"]`, nil
	}

	g := NewQueryGenerator(generator)
	g.Generate(context.Background(), "Acme Corp", "crunchbase", "industrial widgets")

	assert.Contains(t, captured, "Acme Corp")
	assert.Contains(t, captured, "crunchbase")
	assert.Contains(t, captured, "industrial widgets")
}
