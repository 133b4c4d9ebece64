// Package schema validates raw model payloads against the per-mode response
// contract and normalizes them into the canonical output shapes.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
)

// ErrSchemaMismatch reports a payload that parses but does not satisfy the
// requested response schema, or does not parse at all.
var ErrSchemaMismatch = errors.New("schema mismatch")

// MonthPlanDays is the exact day count a PLAN_30 payload must carry. The
// model is instructed to produce it, but the model is not under our control,
// so the count is re-checked here.
const MonthPlanDays = 30

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, fmt.Sprintf(format, args...))
}

// Envelope fields are pointers so a missing required field is distinguishable
// from a zero value; encoding/json would otherwise coerce silently.

type hookItem struct {
	Content    *string `json:"content"`
	VisualIdea *string `json:"visualIdea"`
}

type hookEnvelope struct {
	Posts *[]hookItem `json:"posts"`
}

type slideItem struct {
	Text   *string `json:"text"`
	Visual *string `json:"visual"`
}

type carouselEnvelope struct {
	Slides *[]slideItem `json:"slides"`
	CTA    *string      `json:"cta"`
}

type dayItem struct {
	Day        *int        `json:"day"`
	Topic      *string     `json:"topic"`
	Type       *string     `json:"type"`
	Idea       *string     `json:"idea"`
	VisualIdea *string     `json:"visualIdea"`
	Slides     []slideItem `json:"slides"`
}

type planEnvelope struct {
	Plan *[]dayItem `json:"plan"`
}

// Normalize checks a raw JSON payload against the response contract for the
// given mode and unwraps it into the canonical output. Any missing required
// field, wrong field type, or malformed JSON fails with ErrSchemaMismatch.
func Normalize(mode content.Mode, raw []byte) (content.Output, error) {
	switch mode {
	case content.ModeHooks:
		return normalizeHooks(raw)
	case content.ModeCarousel:
		return normalizeCarousel(raw)
	case content.ModePlan30:
		return normalizePlan(raw)
	}
	return content.Output{}, mismatch("unknown mode %q", mode)
}

func normalizeHooks(raw []byte) (content.Output, error) {
	var env hookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return content.Output{}, mismatch("invalid hook payload: %v", err)
	}
	if env.Posts == nil {
		return content.Output{}, mismatch("hook payload missing 'posts'")
	}
	posts := make([]content.HookPost, 0, len(*env.Posts))
	for i, item := range *env.Posts {
		c, err := requiredString(item.Content, "content")
		if err != nil {
			return content.Output{}, mismatch("post %d: %v", i+1, err)
		}
		v, err := requiredString(item.VisualIdea, "visualIdea")
		if err != nil {
			return content.Output{}, mismatch("post %d: %v", i+1, err)
		}
		posts = append(posts, content.HookPost{Content: c, VisualIdea: v})
	}
	return content.NewHookSet(posts), nil
}

func normalizeCarousel(raw []byte) (content.Output, error) {
	var env carouselEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return content.Output{}, mismatch("invalid carousel payload: %v", err)
	}
	if env.Slides == nil {
		return content.Output{}, mismatch("carousel payload missing 'slides'")
	}
	cta, err := requiredString(env.CTA, "cta")
	if err != nil {
		return content.Output{}, mismatch("carousel payload: %v", err)
	}
	slides, err := normalizeSlides(*env.Slides)
	if err != nil {
		return content.Output{}, mismatch("carousel payload: %v", err)
	}
	return content.NewCarouselSet(content.CarouselSet{Slides: slides, CTA: cta}), nil
}

func normalizePlan(raw []byte) (content.Output, error) {
	var env planEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return content.Output{}, mismatch("invalid plan payload: %v", err)
	}
	if env.Plan == nil {
		return content.Output{}, mismatch("plan payload missing 'plan'")
	}
	if len(*env.Plan) != MonthPlanDays {
		return content.Output{}, mismatch("plan must have exactly %d days, got %d", MonthPlanDays, len(*env.Plan))
	}
	days := make([]content.DayPlan, 0, MonthPlanDays)
	for i, item := range *env.Plan {
		day, err := normalizeDay(item)
		if err != nil {
			return content.Output{}, mismatch("day entry %d: %v", i+1, err)
		}
		days = append(days, day)
	}
	return content.NewMonthPlan(days), nil
}

func normalizeDay(item dayItem) (content.DayPlan, error) {
	if item.Day == nil {
		return content.DayPlan{}, errors.New("missing 'day'")
	}
	if *item.Day < 1 {
		return content.DayPlan{}, fmt.Errorf("day number %d out of range", *item.Day)
	}
	topic, err := requiredString(item.Topic, "topic")
	if err != nil {
		return content.DayPlan{}, err
	}
	dayType, err := requiredString(item.Type, "type")
	if err != nil {
		return content.DayPlan{}, err
	}
	idea, err := requiredString(item.Idea, "idea")
	if err != nil {
		return content.DayPlan{}, err
	}
	visual, err := requiredString(item.VisualIdea, "visualIdea")
	if err != nil {
		return content.DayPlan{}, err
	}
	// Slides are optional for every day; a carousel-typed day without them is
	// accepted as-is.
	var slides []content.CarouselSlide
	if len(item.Slides) > 0 {
		slides, err = normalizeSlides(item.Slides)
		if err != nil {
			return content.DayPlan{}, err
		}
	}
	return content.DayPlan{
		Day:        *item.Day,
		Topic:      topic,
		Type:       dayType,
		Idea:       idea,
		VisualIdea: visual,
		Slides:     slides,
	}, nil
}

func normalizeSlides(items []slideItem) ([]content.CarouselSlide, error) {
	slides := make([]content.CarouselSlide, 0, len(items))
	for i, item := range items {
		text, err := requiredString(item.Text, "text")
		if err != nil {
			return nil, fmt.Errorf("slide %d: %v", i+1, err)
		}
		visual, err := requiredString(item.Visual, "visual")
		if err != nil {
			return nil, fmt.Errorf("slide %d: %v", i+1, err)
		}
		slides = append(slides, content.CarouselSlide{Text: text, Visual: visual})
	}
	return slides, nil
}

func requiredString(v *string, field string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("missing %q", field)
	}
	if strings.TrimSpace(*v) == "" {
		return "", fmt.Errorf("empty %q", field)
	}
	return *v, nil
}
