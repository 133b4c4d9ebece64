package ai

import (
	"fmt"
	"strings"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
)

// Request is the fully built instruction set for one generation call. Mode
// doubles as the key for the response schema the payload is validated
// against.
type Request struct {
	System string
	User   string
	Mode   content.Mode
}

// BuildRequest turns a configuration into the prompt pair for its mode.
// Pure and deterministic; topic context is appended only when the topic is
// non-empty after trimming.
func BuildRequest(cfg content.Config) Request {
	var system, template string
	switch cfg.Mode {
	case content.ModeCarousel:
		system = CarouselSystemInstruction
		template = CarouselUserPrompt
	case content.ModePlan30:
		system = PlanSystemInstruction
		template = PlanUserPrompt
	default:
		system = HookSystemInstruction
		template = HookUserPrompt
	}

	user := fmt.Sprintf(template, cfg.ContentType, cfg.Platform, cfg.Niche)
	if topic := strings.TrimSpace(cfg.Topic); topic != "" {
		user += fmt.Sprintf(" Topic: %s.", topic)
	}

	return Request{System: system, User: user, Mode: cfg.Mode}
}
