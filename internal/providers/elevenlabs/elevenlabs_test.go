package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_MockWithoutKey(t *testing.T) {
	if _, ok := New("").(*Mock); !ok {
		t.Error("empty key should select the mock")
	}
	if _, ok := New("key").(*Client); !ok {
		t.Error("a key should select the real client")
	}
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-1" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		var body struct {
			Text    string `json:"text"`
			ModelID string `json:"model_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Text != "Hello there." || body.ModelID == "" {
			t.Errorf("body: %+v", body)
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := &Client{APIKey: "secret", BaseURL: srv.URL}
	audio, err := c.Synthesize(context.Background(), "Hello there.", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Errorf("audio: %q", audio)
	}
}

func TestSynthesize_DefaultVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/"+DefaultVoiceID {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	c := &Client{APIKey: "secret", BaseURL: srv.URL}
	if _, err := c.Synthesize(context.Background(), "hi", ""); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}

func TestSynthesize_ErrorMapping(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusTooManyRequests, ErrQuota},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
		}))
		c := &Client{APIKey: "secret", BaseURL: srv.URL}
		_, err := c.Synthesize(context.Background(), "hi", "v")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.code, err, tc.want)
		}
		srv.Close()
	}
}

func TestSynthesize_ServerErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": {"message": "text too long"}}`))
	}))
	defer srv.Close()

	c := &Client{APIKey: "secret", BaseURL: srv.URL}
	_, err := c.Synthesize(context.Background(), "hi", "v")
	if err == nil || !strings.Contains(err.Error(), "text too long") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}
