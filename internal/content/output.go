package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Output pairs a creation mode with its payload. Values are built only
// through the New* constructors so a (mode, data) mismatch cannot exist.
type Output struct {
	mode     Mode
	hooks    []HookPost
	carousel CarouselSet
	plan     []DayPlan
}

// NewHookSet wraps an ordered hook post sequence.
func NewHookSet(posts []HookPost) Output {
	return Output{mode: ModeHooks, hooks: posts}
}

// NewCarouselSet wraps a slide sequence plus its closing CTA.
func NewCarouselSet(set CarouselSet) Output {
	return Output{mode: ModeCarousel, carousel: set}
}

// NewMonthPlan wraps an ordered 30-day plan.
func NewMonthPlan(days []DayPlan) Output {
	return Output{mode: ModePlan30, plan: days}
}

// Mode returns the discriminant tag of the output.
func (o Output) Mode() Mode { return o.mode }

// Hooks returns the hook posts; nil unless Mode is HOOKS.
func (o Output) Hooks() []HookPost { return o.hooks }

// Carousel returns the carousel payload; zero unless Mode is CAROUSEL.
func (o Output) Carousel() CarouselSet { return o.carousel }

// Plan returns the day plan; nil unless Mode is PLAN_30.
func (o Output) Plan() []DayPlan { return o.plan }

// MarshalJSON emits the canonical payload for the mode: the plain hook or
// day sequence, or the carousel object.
func (o Output) MarshalJSON() ([]byte, error) {
	switch o.mode {
	case ModeHooks:
		return json.Marshal(o.hooks)
	case ModeCarousel:
		return json.Marshal(o.carousel)
	case ModePlan30:
		return json.Marshal(o.plan)
	}
	return nil, fmt.Errorf("cannot marshal output with mode %q", o.mode)
}

// DecodeOutput decodes a canonical payload previously produced by
// MarshalJSON. It is used when reading persisted history, not for raw model
// responses; those go through the schema normalizer.
func DecodeOutput(mode Mode, raw []byte) (Output, error) {
	switch mode {
	case ModeHooks:
		var posts []HookPost
		if err := json.Unmarshal(raw, &posts); err != nil {
			return Output{}, fmt.Errorf("decoding hook set: %w", err)
		}
		return NewHookSet(posts), nil
	case ModeCarousel:
		var set CarouselSet
		if err := json.Unmarshal(raw, &set); err != nil {
			return Output{}, fmt.Errorf("decoding carousel set: %w", err)
		}
		return NewCarouselSet(set), nil
	case ModePlan30:
		var days []DayPlan
		if err := json.Unmarshal(raw, &days); err != nil {
			return Output{}, fmt.Errorf("decoding month plan: %w", err)
		}
		return NewMonthPlan(days), nil
	}
	return Output{}, fmt.Errorf("cannot decode output with mode %q", mode)
}

// GenerationResult is one immutable record of a completed generation plus the
// configuration that produced it.
type GenerationResult struct {
	ID          string
	Timestamp   time.Time
	Mode        Mode
	Niche       Niche
	Platform    Platform
	ContentType ContentType
	Topic       string
	Data        Output
}

// NewResult stamps a fresh identifier and timestamp onto a finished
// generation. The mode tag is taken from the output itself so the record can
// never carry cross-mode data.
func NewResult(cfg Config, data Output) GenerationResult {
	return GenerationResult{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Mode:        data.Mode(),
		Niche:       cfg.Niche,
		Platform:    cfg.Platform,
		ContentType: cfg.ContentType,
		Topic:       cfg.Topic,
		Data:        data,
	}
}

// resultJSON is the wire/storage shape of a GenerationResult. Timestamps are
// epoch milliseconds and the platform stays a one-element array, matching
// history records written by earlier releases.
type resultJSON struct {
	ID          string          `json:"id"`
	Timestamp   int64           `json:"timestamp"`
	Mode        Mode            `json:"mode"`
	Niche       Niche           `json:"niche"`
	Platform    []Platform      `json:"platform"`
	ContentType ContentType     `json:"contentType"`
	Topic       string          `json:"topic"`
	Data        json.RawMessage `json:"data"`
}

func (r GenerationResult) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resultJSON{
		ID:          r.ID,
		Timestamp:   r.Timestamp.UnixMilli(),
		Mode:        r.Mode,
		Niche:       r.Niche,
		Platform:    []Platform{r.Platform},
		ContentType: r.ContentType,
		Topic:       r.Topic,
		Data:        data,
	})
}

func (r *GenerationResult) UnmarshalJSON(raw []byte) error {
	var rec resultJSON
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}
	data, err := DecodeOutput(rec.Mode, rec.Data)
	if err != nil {
		return err
	}
	var platform Platform
	if len(rec.Platform) > 0 {
		platform = rec.Platform[0]
	}
	*r = GenerationResult{
		ID:          rec.ID,
		Timestamp:   time.UnixMilli(rec.Timestamp),
		Mode:        rec.Mode,
		Niche:       rec.Niche,
		Platform:    platform,
		ContentType: rec.ContentType,
		Topic:       rec.Topic,
		Data:        data,
	}
	return nil
}
