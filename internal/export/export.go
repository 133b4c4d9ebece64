// Package export serializes generation outputs into plain text and CSV.
// Both forms are pure functions of the output; repeated calls are
// byte-identical.
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
)

// Text renders a human-readable block per item, blank-line separated. The
// carousel CTA follows the slides; month-plan days show their slide
// breakdown only when they carry one.
func Text(o content.Output) string {
	var b strings.Builder

	switch o.Mode() {
	case content.ModeHooks:
		for i, p := range o.Hooks() {
			fmt.Fprintf(&b, "Post %d:\n%s\nVisual Idea: %s\n\n", i+1, p.Content, p.VisualIdea)
		}
	case content.ModeCarousel:
		set := o.Carousel()
		for i, s := range set.Slides {
			fmt.Fprintf(&b, "Slide %d: %s\nVisual: %s\n\n", i+1, s.Text, s.Visual)
		}
		fmt.Fprintf(&b, "CTA: %s\n", set.CTA)
	case content.ModePlan30:
		for _, d := range o.Plan() {
			fmt.Fprintf(&b, "Day %d [%s]\nTopic: %s\nIdea: %s\nVisual Idea: %s\n", d.Day, d.Type, d.Topic, d.Idea, d.VisualIdea)
			if len(d.Slides) > 0 {
				b.WriteString("Slides:\n")
				for i, s := range d.Slides {
					fmt.Fprintf(&b, "S%d: %s (Visual: %s)\n", i+1, s.Text, s.Visual)
				}
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// CSV renders the mode's header row plus one row per item. Every field is
// double-quote wrapped unconditionally, with embedded quotes doubled.
func CSV(o content.Output) string {
	var rows []string

	switch o.Mode() {
	case content.ModeHooks:
		rows = append(rows, "Number,Content,Visual Idea")
		for i, p := range o.Hooks() {
			rows = append(rows, csvRow(strconv.Itoa(i+1), p.Content, p.VisualIdea))
		}
	case content.ModeCarousel:
		set := o.Carousel()
		rows = append(rows, "Slide,Text,Visual")
		for i, s := range set.Slides {
			rows = append(rows, csvRow(strconv.Itoa(i+1), s.Text, s.Visual))
		}
		rows = append(rows, csvRow("CTA", set.CTA))
	case content.ModePlan30:
		rows = append(rows, "Day,Topic,Type,Idea,Visual Idea")
		for _, d := range o.Plan() {
			rows = append(rows, csvRow(strconv.Itoa(d.Day), d.Topic, d.Type, d.Idea, d.VisualIdea))
		}
	}

	return strings.Join(rows, "\n")
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives an export filename from a title: lower-cased, whitespace
// runs joined with underscores, plus the extension.
func Filename(title, ext string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "_") + "." + ext
}

// ResultTitle is the export title for a result, derived from its mode.
func ResultTitle(mode content.Mode) string {
	return "Faceless_" + string(mode)
}

func csvRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
