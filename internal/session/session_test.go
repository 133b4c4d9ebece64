package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
)

// fakeGenerator is a scriptable Generator. When block is set, Generate
// signals started and waits until block is closed.
type fakeGenerator struct {
	out     content.Output
	err     error
	calls   int
	block   chan struct{}
	started chan struct{}
}

func (f *fakeGenerator) Generate(_ context.Context, _ content.Config) (content.Output, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.block != nil {
		<-f.block
	}
	return f.out, f.err
}

// memRepo is an in-memory HistoryRepository recording call counts.
type memRepo struct {
	stored     []content.GenerationResult
	loadErr    error
	saveCalls  int
	clearCalls int
}

func (m *memRepo) Load(context.Context) ([]content.GenerationResult, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]content.GenerationResult, len(m.stored))
	copy(out, m.stored)
	return out, nil
}

func (m *memRepo) Save(_ context.Context, history []content.GenerationResult) error {
	m.saveCalls++
	m.stored = make([]content.GenerationResult, len(history))
	copy(m.stored, history)
	return nil
}

func (m *memRepo) Clear(context.Context) error {
	m.clearCalls++
	m.stored = nil
	return nil
}

func (m *memRepo) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

func hookOutput() content.Output {
	return content.NewHookSet([]content.HookPost{
		{Content: "Stop scrolling.", VisualIdea: "POV desk shot"},
	})
}

func newTestSession(gen Generator, repo storage.HistoryRepository) *Session {
	return New(context.Background(), content.DefaultConfig(), gen, repo, testLogger())
}

func TestCarouselTopicValidation(t *testing.T) {
	for _, topic := range []string{"", "   ", " \t\n "} {
		t.Run(fmt.Sprintf("topic %q", topic), func(t *testing.T) {
			gen := &fakeGenerator{out: hookOutput()}
			repo := &memRepo{}
			s := newTestSession(gen, repo)

			if err := s.SetMode(content.ModeCarousel); err != nil {
				t.Fatal(err)
			}
			s.SetTopic(topic)

			_, err := s.Generate(context.Background())
			if !errors.Is(err, content.ErrTopicRequired) {
				t.Fatalf("Generate() = %v, want ErrTopicRequired", err)
			}
			if gen.calls != 0 {
				t.Errorf("generator called %d times, want 0", gen.calls)
			}
			if repo.saveCalls != 0 {
				t.Errorf("history saved %d times, want 0", repo.saveCalls)
			}
		})
	}
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)

	if err := s.SetNiche(content.NicheFitness); err != nil {
		t.Fatal(err)
	}
	s.SetTopic("")

	result, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if result.Mode != content.ModeHooks || result.Niche != content.NicheFitness {
		t.Errorf("result does not echo the configuration: %+v", result)
	}
	if result.ID == "" {
		t.Error("result has no ID")
	}
	if len(result.Data.Hooks()) != 1 {
		t.Errorf("result data = %+v, want the generator output", result.Data)
	}

	current, ok := s.Result()
	if !ok || current.ID != result.ID {
		t.Error("result is not the current one")
	}

	history := s.History()
	if len(history) != 1 || history[0].ID != result.ID {
		t.Errorf("history = %+v, want the new result at index 0", history)
	}
	if repo.saveCalls != 1 || len(repo.stored) != 1 {
		t.Errorf("saveCalls = %d, stored = %d, want 1 and 1", repo.saveCalls, len(repo.stored))
	}
}

func TestGenerateFailureRetainsState(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)

	first, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	gen.err = errors.New("model unreachable")
	if _, err := s.Generate(context.Background()); err == nil {
		t.Fatal("Generate() = nil, want error")
	}

	// The previous result and history survive a failed generation.
	current, ok := s.Result()
	if !ok || current.ID != first.ID {
		t.Error("previous result was not retained")
	}
	if len(s.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(s.History()))
	}
	if repo.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", repo.saveCalls)
	}
}

func TestHistoryCapAndOrdering(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)

	var ids []string
	for i := 0; i < HistoryLimit+1; i++ {
		result, err := s.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate() %d error: %v", i, err)
		}
		ids = append(ids, result.ID)
	}

	history := s.History()
	if len(history) != HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), HistoryLimit)
	}
	if history[0].ID != ids[len(ids)-1] {
		t.Error("newest result is not at index 0")
	}
	for _, r := range history {
		if r.ID == ids[0] {
			t.Error("oldest result was not dropped")
		}
	}
	if len(repo.stored) != HistoryLimit {
		t.Errorf("persisted length = %d, want %d", len(repo.stored), HistoryLimit)
	}
}

func TestSelectHistory(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)

	s.SetTopic("first topic")
	first, err := s.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s.SetTopic("second topic")
	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}

	callsBefore := gen.calls
	selected, err := s.SelectHistory(first.ID)
	if err != nil {
		t.Fatalf("SelectHistory() error: %v", err)
	}
	if gen.calls != callsBefore {
		t.Error("SelectHistory must not invoke the generator")
	}

	if selected.ID != first.ID || selected.Topic != "first topic" ||
		selected.Mode != first.Mode || selected.Niche != first.Niche ||
		selected.Platform != first.Platform || selected.ContentType != first.ContentType {
		t.Errorf("selected = %+v, want %+v", selected, first)
	}
	current, ok := s.Result()
	if !ok || current.ID != first.ID {
		t.Error("selected entry did not become the current result")
	}
	if len(s.History()) != 2 {
		t.Error("SelectHistory must not mutate history")
	}
}

func TestSelectHistoryUnknown(t *testing.T) {
	s := newTestSession(&fakeGenerator{out: hookOutput()}, &memRepo{})
	if _, err := s.SelectHistory("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SelectHistory() = %v, want ErrNotFound", err)
	}
}

func TestClearHistory(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)

	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory() error: %v", err)
	}

	if len(s.History()) != 0 {
		t.Error("in-memory history not emptied")
	}
	if repo.clearCalls != 1 {
		t.Errorf("clearCalls = %d, want 1", repo.clearCalls)
	}

	// A subsequent startup sees an empty history.
	restarted := newTestSession(gen, repo)
	if len(restarted.History()) != 0 {
		t.Error("restart after clear should yield empty history")
	}
}

func TestEmptyHistoryNeverPersisted(t *testing.T) {
	repo := &memRepo{}
	s := newTestSession(&fakeGenerator{err: errors.New("down")}, repo)

	// A failed generation and a clear on an already-empty history must not
	// write an empty value; only the explicit clear path touches the store.
	_, _ = s.Generate(context.Background())
	if err := s.ClearHistory(context.Background()); err != nil {
		t.Fatal(err)
	}

	if repo.saveCalls != 0 {
		t.Errorf("saveCalls = %d, want 0", repo.saveCalls)
	}
	if repo.clearCalls != 1 {
		t.Errorf("clearCalls = %d, want 1", repo.clearCalls)
	}
}

func TestModeChangeClearsResult(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	s := newTestSession(gen, &memRepo{})

	s.SetTopic("keep me")
	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.SetMode(content.ModePlan30); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Result(); ok {
		t.Error("mode change must clear the current result")
	}
	if cfg := s.Config(); cfg.Topic != "keep me" || cfg.Mode != content.ModePlan30 {
		t.Errorf("config after mode change = %+v", cfg)
	}
}

func TestPlatformSingleSelect(t *testing.T) {
	s := newTestSession(&fakeGenerator{out: hookOutput()}, &memRepo{})

	if err := s.SetPlatform(content.PlatformYouTubeShorts); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPlatform(content.PlatformFacebookReels); err != nil {
		t.Fatal(err)
	}
	if got := s.Config().Platform; got != content.PlatformFacebookReels {
		t.Errorf("platform = %q, want the last selection", got)
	}
}

func TestGenerateWhileBusy(t *testing.T) {
	gen := &fakeGenerator{
		out:     hookOutput(),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newTestSession(gen, &memRepo{})

	started := gen.started
	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first generation never started")
	}

	if _, err := s.Generate(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Generate() = %v, want ErrBusy", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	if len(s.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(s.History()))
	}
}

func TestCorruptHistoryDiscarded(t *testing.T) {
	repo := &memRepo{loadErr: fmt.Errorf("%w: bad payload", storage.ErrCorrupt)}
	s := newTestSession(&fakeGenerator{out: hookOutput()}, repo)

	if len(s.History()) != 0 {
		t.Error("corrupt stored history must start empty")
	}

	// The session keeps working afterwards.
	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() after corrupt load: %v", err)
	}
}

func TestHistoryLoadedAtStartup(t *testing.T) {
	gen := &fakeGenerator{out: hookOutput()}
	repo := &memRepo{}
	s := newTestSession(gen, repo)
	result, err := s.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	restarted := newTestSession(gen, repo)
	history := restarted.History()
	if len(history) != 1 || history[0].ID != result.ID {
		t.Errorf("restarted history = %+v, want the stored result", history)
	}
}
