package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"live-trivia-service/internal/app"
	"live-trivia-service/internal/infra/memory"
)

func TestQuizListingEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/quizzes")
	if err != nil {
		t.Fatalf("get quizzes: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Quizzes []struct {
			ID            string `json:"id"`
			Title         string `json:"title"`
			QuestionCount int    `json:"questionCount"`
		} `json:"quizzes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Quizzes) != 1 || body.Quizzes[0].ID != "capitals" || body.Quizzes[0].QuestionCount != 1 {
		t.Fatalf("unexpected listing %+v", body.Quizzes)
	}
}

func TestStaticPages(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	for _, path := range []string{"/", "/host"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: unexpected content type %s", path, ct)
		}
		resp.Body.Close()
	}
}

func TestJoinQRCode(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/join/123456/qr")
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected png, got %s", ct)
	}
}

func TestRateLimitRejectsFloods(t *testing.T) {
	hub := NewHub()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	service := app.NewGameService(memory.NewSessionRegistry(), quizRepo, hub)
	router := NewRouter(service, NewWSHandler(service, hub), 2)
	server := httptest.NewServer(router)
	defer server.Close()

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/api/quizzes")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("expected burst allowed, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %v", statuses)
	}
}
