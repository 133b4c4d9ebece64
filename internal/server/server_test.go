package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/educationrisehub/faceless-reels-generator/internal/ai"
	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/session"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
)

type stubGenerator struct {
	out content.Output
	err error
}

func (s *stubGenerator) Generate(context.Context, content.Config) (content.Output, error) {
	return s.out, s.err
}

type stubRepo struct {
	stored []content.GenerationResult
}

func (r *stubRepo) Load(context.Context) ([]content.GenerationResult, error) { return r.stored, nil }
func (r *stubRepo) Save(_ context.Context, h []content.GenerationResult) error {
	r.stored = h
	return nil
}
func (r *stubRepo) Clear(context.Context) error {
	r.stored = nil
	return nil
}
func (r *stubRepo) Close() error { return nil }

func newTestServer(t *testing.T, gen session.Generator) *httptest.Server {
	t.Helper()
	log := logger.New(logger.Config{Level: "disabled"})
	sess := session.New(context.Background(), content.DefaultConfig(), gen, &stubRepo{}, log)
	ts := httptest.NewServer(New(sess, log).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func hookGenerator() *stubGenerator {
	return &stubGenerator{out: content.NewHookSet([]content.HookPost{
		{Content: "Stop scrolling.", VisualIdea: "POV desk shot"},
	})}
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

const hooksBody = `{"niche":"Fitness","mode":"HOOKS","platform":"TikTok","contentType":"Educational","topic":""}`

func TestGenerateEndpoint(t *testing.T) {
	ts := newTestServer(t, hookGenerator())

	resp := postJSON(t, ts.URL+"/api/generate", hooksBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result struct {
		ID    string             `json:"id"`
		Mode  content.Mode       `json:"mode"`
		Niche content.Niche      `json:"niche"`
		Plat  []content.Platform `json:"platform"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.ID == "" || result.Mode != content.ModeHooks || result.Niche != content.NicheFitness {
		t.Errorf("result = %+v", result)
	}
	if len(result.Plat) != 1 || result.Plat[0] != content.PlatformTikTok {
		t.Errorf("platform = %v, want one-element array", result.Plat)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "carousel without topic",
			body: `{"niche":"Fitness","mode":"CAROUSEL","platform":"TikTok","contentType":"Educational","topic":"  "}`,
		},
		{
			name: "unknown niche",
			body: `{"niche":"Cooking","mode":"HOOKS","platform":"TikTok","contentType":"Educational"}`,
		},
		{
			name: "broken body",
			body: `{"niche":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, hookGenerator())
			resp := postJSON(t, ts.URL+"/api/generate", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGenerateFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: upstream down", ai.ErrGenerationFailed)}
	ts := newTestServer(t, gen)

	resp := postJSON(t, ts.URL+"/api/generate", hooksBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	// Nothing stored on failure.
	histResp, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	defer histResp.Body.Close()
	var history []json.RawMessage
	if err := json.NewDecoder(histResp.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
}

func generateOne(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/generate", hooksBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	return result.ID
}

func TestHistorySelect(t *testing.T) {
	ts := newTestServer(t, hookGenerator())
	id := generateOne(t, ts)

	resp := postJSON(t, ts.URL+"/api/history/"+id+"/select", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	missing := postJSON(t, ts.URL+"/api/history/unknown/select", "")
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.StatusCode)
	}
}

func TestHistoryClear(t *testing.T) {
	ts := newTestServer(t, hookGenerator())
	generateOne(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/history", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, hookGenerator())
	id := generateOne(t, ts)

	resp, err := http.Get(ts.URL + "/api/export/" + id + "?format=csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "faceless_hooks.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "Number,Content,Visual Idea\n") {
		t.Errorf("body = %q", body)
	}

	badFormat, err := http.Get(ts.URL + "/api/export/" + id + "?format=pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer badFormat.Body.Close()
	if badFormat.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", badFormat.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/api/export/unknown")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.StatusCode)
	}
}
