package content

import (
	"errors"
	"fmt"
	"strings"
)

// Niche is the topical audience category content is generated for.
type Niche string

const (
	NicheStudents         Niche = "Students"
	NicheMotivation       Niche = "Motivation"
	NicheFitness          Niche = "Fitness"
	NicheBusiness         Niche = "Business"
	NichePersonalBranding Niche = "Personal Branding"
)

// Niches lists every supported niche in display order.
var Niches = []Niche{
	NicheStudents,
	NicheMotivation,
	NicheFitness,
	NicheBusiness,
	NichePersonalBranding,
}

// Valid reports whether n is a known niche.
func (n Niche) Valid() bool {
	for _, v := range Niches {
		if n == v {
			return true
		}
	}
	return false
}

// Mode is the shape of content to generate.
type Mode string

const (
	ModeHooks    Mode = "HOOKS"
	ModeCarousel Mode = "CAROUSEL"
	ModePlan30   Mode = "PLAN_30"
)

// Modes lists every supported creation mode in display order.
var Modes = []Mode{ModeHooks, ModeCarousel, ModePlan30}

// Valid reports whether m is a known creation mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeHooks, ModeCarousel, ModePlan30:
		return true
	}
	return false
}

// Label returns the human-readable name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeHooks:
		return "Hook-led Short Posts"
	case ModeCarousel:
		return "Carousel / Slides"
	case ModePlan30:
		return "30-Day Content Plan"
	}
	return string(m)
}

// Platform is the short-form video platform content is optimized for.
type Platform string

const (
	PlatformTikTok         Platform = "TikTok"
	PlatformInstagramReels Platform = "Instagram Reels"
	PlatformYouTubeShorts  Platform = "YouTube Shorts"
	PlatformFacebookReels  Platform = "Facebook Reels"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformTikTok,
	PlatformInstagramReels,
	PlatformYouTubeShorts,
	PlatformFacebookReels,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

// ContentType is the editorial style of the generated content.
type ContentType string

const (
	ContentTypeEducational     ContentType = "Educational"
	ContentTypeMotivational    ContentType = "Motivational"
	ContentTypeStoryBased      ContentType = "Story-based"
	ContentTypeAuthority       ContentType = "Authority"
	ContentTypeProblemSolution ContentType = "Problem–Solution"
	ContentTypeListStyle       ContentType = "List-style"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{
	ContentTypeEducational,
	ContentTypeMotivational,
	ContentTypeStoryBased,
	ContentTypeAuthority,
	ContentTypeProblemSolution,
	ContentTypeListStyle,
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	for _, v := range ContentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ErrTopicRequired is returned when a carousel is requested without a topic.
var ErrTopicRequired = errors.New("topic is required for carousel generation")

// Config holds the user-selected inputs that drive a generation call.
// Platform is a single selection; the persisted JSON keeps the historical
// one-element array shape.
type Config struct {
	Niche       Niche
	Mode        Mode
	Platform    Platform
	ContentType ContentType
	Topic       string
}

// DefaultConfig returns the initial configuration a fresh session starts with.
func DefaultConfig() Config {
	return Config{
		Niche:       NicheStudents,
		Mode:        ModeHooks,
		Platform:    PlatformTikTok,
		ContentType: ContentTypeEducational,
	}
}

// Validate checks every field against its enumerated set and enforces the
// carousel topic requirement. A failing config must never reach the model.
func (c Config) Validate() error {
	if !c.Niche.Valid() {
		return fmt.Errorf("invalid niche %q", c.Niche)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if !c.Platform.Valid() {
		return fmt.Errorf("invalid platform %q", c.Platform)
	}
	if !c.ContentType.Valid() {
		return fmt.Errorf("invalid content type %q", c.ContentType)
	}
	if c.Mode == ModeCarousel && strings.TrimSpace(c.Topic) == "" {
		return ErrTopicRequired
	}
	return nil
}

// HookPost is one short voiceover script paired with a visual suggestion.
type HookPost struct {
	Content    string `json:"content"`
	VisualIdea string `json:"visualIdea"`
}

// CarouselSlide is one unit of a carousel: on-slide text plus a visual
// direction.
type CarouselSlide struct {
	Text   string `json:"text"`
	Visual string `json:"visual"`
}

// CarouselSet is an ordered slide sequence closed by a call-to-action.
type CarouselSet struct {
	Slides []CarouselSlide `json:"slides"`
	CTA    string          `json:"cta"`
}

// DayPlan is a single day of a 30-day content plan. Slides is populated only
// for carousel-style days.
type DayPlan struct {
	Day        int             `json:"day"`
	Topic      string          `json:"topic"`
	Type       string          `json:"type"`
	Idea       string          `json:"idea"`
	VisualIdea string          `json:"visualIdea"`
	Slides     []CarouselSlide `json:"slides,omitempty"`
}
