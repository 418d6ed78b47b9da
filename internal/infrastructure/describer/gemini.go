// Package describer writes short product descriptions with the Gemini API.
package describer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// Fallback texts returned instead of errors
const (
	FallbackMissingKey = "Descrição não disponível (API Key ausente)."
	FallbackEmpty      = "Nova coleção Paty Modas."
	FallbackFailure    = "Peça exclusiva da Paty Modas."
)

const promptTemplate = `Escreva uma descrição atraente, curta e vendedora (máximo 25 palavras) em Português do Brasil para um produto de moda.
Produto: %s
Categoria: %s
Tom de voz: Elegante e moderno.`

// contentGenerator is the subset of *genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates descriptions; it never returns errors to callers
type Gemini struct {
	models contentGenerator
	model  string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewGemini creates the generator. With an empty API key no client is
// created and every call returns FallbackMissingKey.
func NewGemini(ctx context.Context, apiKey, model string, tracer trace.Tracer, logger *slog.Logger) (*Gemini, error) {
	g := &Gemini{model: model, tracer: tracer, logger: logger}
	if apiKey == "" {
		logger.Warn("API key missing for Gemini, descriptions will use fallback text")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.models = client.Models
	return g, nil
}

// Generate returns a short description for the product
func (g *Gemini) Generate(ctx context.Context, name, category string) string {
	ctx, span := g.tracer.Start(ctx, "Gemini.Generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", name),
		attribute.String("product.category", category),
		attribute.String("gemini.model", g.model),
	)

	if g.models == nil {
		span.SetStatus(codes.Error, "API key missing")
		return FallbackMissingKey
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(promptTemplate, name, category)), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		g.logger.ErrorContext(ctx, "Error generating description",
			slog.String("product_name", name),
			slog.String("error", err.Error()),
		)
		return FallbackFailure
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Ok, "Empty response")
		return FallbackEmpty
	}

	span.SetStatus(codes.Ok, "Description generated")
	return text
}
