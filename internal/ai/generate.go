package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/schema"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
)

// ErrGenerationFailed covers every failure of a generation call: transport
// errors from the model and payloads that miss the response contract. The
// cause stays in the error chain for diagnostics.
var ErrGenerationFailed = errors.New("generation failed")

// Completer produces a model completion for a system/user prompt pair.
// *Client is the production implementation.
type Completer interface {
	CompleteWithJSON(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Generator turns a configuration into normalized content via one model
// call. No retry, no partial results.
type Generator struct {
	completer Completer
	log       *logger.Logger
}

// NewGenerator creates a generator on top of a completer.
func NewGenerator(completer Completer, log *logger.Logger) *Generator {
	return &Generator{
		completer: completer,
		log:       log.WithComponent("generator"),
	}
}

// Generate builds the request for the configuration, invokes the model, and
// validates the response against the mode's schema.
func (g *Generator) Generate(ctx context.Context, cfg content.Config) (content.Output, error) {
	req := BuildRequest(cfg)

	response, err := g.completer.CompleteWithJSON(ctx, req.System, req.User)
	if err != nil {
		return content.Output{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	out, err := schema.Normalize(req.Mode, []byte(stripMarkdownCodeBlock(response)))
	if err != nil {
		g.log.Error().
			Err(err).
			Str("mode", string(req.Mode)).
			Str("response", response).
			Msg("Failed to validate model response")
		return content.Output{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return out, nil
}

// stripMarkdownCodeBlock removes markdown code block delimiters from AI responses
func stripMarkdownCodeBlock(response string) string {
	response = strings.TrimSpace(response)

	// Find the first { which starts valid JSON
	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return response
	}

	// Find the last } which ends valid JSON
	endIdx := strings.LastIndex(response, "}")
	if endIdx == -1 || endIdx < startIdx {
		return response
	}

	// Extract just the JSON object
	return response[startIdx : endIdx+1]
}
