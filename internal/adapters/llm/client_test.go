package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *metrics.Set) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Options{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 2 * time.Second})
	m := metrics.New()
	c.metrics = m
	return c, m
}

func TestComplete_SendsRequestAndReadsChoice(t *testing.T) {
	var got map[string]any
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("auth header = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"name\":\"John\"}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`)
	})

	out, err := c.Complete(context.Background(), Completion{
		Purpose: "categorize", System: "sys", User: "hello", Temperature: 0.1, MaxTokens: 10, JSON: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"name":"John"}` {
		t.Fatalf("content = %q", out)
	}
	if got["model"] != defaultChatModel || got["max_tokens"] != 10.0 {
		t.Fatalf("request = %v", got)
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("response_format = %v", got["response_format"])
	}
	if v := testutil.ToFloat64(m.LLMCalls.WithLabelValues("categorize", "ok")); v != 1 {
		t.Fatalf("ok calls = %v", v)
	}
	if v := testutil.ToFloat64(m.LLMTokens.WithLabelValues(defaultChatModel, "prompt")); v != 12 {
		t.Fatalf("prompt tokens = %v", v)
	}
}

func TestTranscribe_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file: %v", err)
		} else {
			b, _ := io.ReadAll(f)
			if string(b) != "RIFFdata" || !strings.HasSuffix(hdr.Filename, ".wav") {
				t.Errorf("file = %q %q", hdr.Filename, b)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"  Met John near Market Street. "}`)
	})

	text, err := c.Transcribe(context.Background(), "note.wav", []byte("RIFFdata"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Met John near Market Street." {
		t.Fatalf("text = %q", text)
	}
}

func TestErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   perr.ErrorCode
		label  string
	}{
		{"bad key", 401, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, perr.ErrorCodeUnauthorized, "unauthorized"},
		{"rate limit", 429, `{"error":{"message":"slow down","type":"requests"}}`, perr.ErrorCodeTooManyRequests, "rate_limited"},
		{"server error", 503, `upstream down`, perr.ErrorCodeUnknown, "error"},
		{"rejected input", 400, `{"error":{"message":"Invalid file format","type":"invalid_request_error"}}`, perr.ErrorCodeInvalidArgument, "rejected"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.Complete(context.Background(), Completion{Purpose: "duplicate", System: "s", User: "u"})
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("code = %v, want %v (err %v)", perr.CodeOf(err), tc.code, err)
			}
			if pe, _ := perr.As(err); strings.Contains(pe.ToWire().Message, "sk-test") {
				t.Fatalf("credential leaked into client message")
			}
			if v := testutil.ToFloat64(m.LLMCalls.WithLabelValues("duplicate", tc.label)); v != 1 {
				t.Fatalf("%s calls = %v", tc.label, v)
			}
		})
	}
}

func TestTimeoutIsClassified(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// runs before the server's Close
	t.Cleanup(func() { close(release) })
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, Completion{Purpose: "categorize"})
	if !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("want timeout, got %v", err)
	}
}
