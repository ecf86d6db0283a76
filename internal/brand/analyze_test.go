package brand

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!doctype html>
<html>
<head>
<title>Acme Robotics</title>
<meta name="description" content="Cutting-edge automation for modern factories.">
<meta name="keywords" content="robotics, automation, manufacturing">
<meta property="og:title" content="Acme Robotics (OG)">
<style>body { color: red }</style>
<script>var tracking = true;</script>
</head>
<body>
<h1>Acme Robotics</h1>
<p>We build innovative technology for enterprise customers.</p>
</body>
</html>`

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("fetch sent no User-Agent")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze(t *testing.T) {
	srv := serveHTML(t, samplePage)

	profile, err := (&Analyzer{}).Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if profile.URL != srv.URL {
		t.Errorf("url: got %q, want %q", profile.URL, srv.URL)
	}
	if profile.Title != "Acme Robotics" {
		t.Errorf("title: got %q", profile.Title)
	}
	if profile.Description != "Cutting-edge automation for modern factories." {
		t.Errorf("description: got %q", profile.Description)
	}
	want := []string{"robotics", "automation", "manufacturing"}
	if len(profile.Keywords) != len(want) {
		t.Fatalf("keywords: got %v, want %v", profile.Keywords, want)
	}
	for i := range want {
		if profile.Keywords[i] != want[i] {
			t.Errorf("keywords[%d]: got %q, want %q", i, profile.Keywords[i], want[i])
		}
	}
	// "innovative technology" in the body selects the tech-forward voice.
	if !strings.Contains(profile.BrandVoice, "tech-forward") {
		t.Errorf("brand voice: got %q", profile.BrandVoice)
	}
	if !strings.Contains(profile.TargetAudience, "Business professionals") {
		t.Errorf("target audience: got %q", profile.TargetAudience)
	}
}

func TestAnalyze_MissingMetadata(t *testing.T) {
	srv := serveHTML(t, "<html><body><p>Hello there.</p></body></html>")

	profile, err := (&Analyzer{}).Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if profile.Title != "No title found" {
		t.Errorf("title placeholder: got %q", profile.Title)
	}
	if profile.Description != "No description found" {
		t.Errorf("description placeholder: got %q", profile.Description)
	}
	if len(profile.Keywords) != 1 || profile.Keywords[0] != "No keywords found" {
		t.Errorf("keywords placeholder: got %v", profile.Keywords)
	}
}

func TestAnalyze_OpenGraphFallback(t *testing.T) {
	srv := serveHTML(t, `<html><head>
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description.">
</head><body></body></html>`)

	profile, err := (&Analyzer{}).Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if profile.Title != "OG Title" {
		t.Errorf("og:title fallback: got %q", profile.Title)
	}
	if profile.Description != "OG description." {
		t.Errorf("og:description fallback: got %q", profile.Description)
	}
}

func TestAnalyze_ScriptAndStyleIgnored(t *testing.T) {
	srv := serveHTML(t, `<html><head><script>var luxury = "premium";</script></head>
<body><p>Plain words only.</p></body></html>`)

	profile, err := (&Analyzer{}).Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// Script text must not leak into the voice classification.
	if strings.Contains(profile.BrandVoice, "Premium") {
		t.Errorf("script text influenced classification: %q", profile.BrandVoice)
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := (&Analyzer{}).Analyze(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
