package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestProblemCRUD(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.doJSON(t, http.MethodPost, "/api/problem", map[string]string{
		"question": "What is a race condition?",
		"answer":   "Unsynchronized concurrent access to shared state.",
	}, true)
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, env = s.doJSON(t, http.MethodPut, "/api/problem/1", map[string]string{
		"answer": "Two goroutines touching the same state without synchronization.",
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	var problem struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(env.Data, &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Question != "What is a race condition?" {
		t.Fatalf("question must be untouched: %q", problem.Question)
	}
	if problem.Answer == "Unsynchronized concurrent access to shared state." {
		t.Fatal("answer not updated")
	}

	rec, _ = s.doJSON(t, http.MethodDelete, "/api/problem/1", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, env = s.doJSON(t, http.MethodGet, "/api/problem/1", nil, false)
	if rec.Code != http.StatusNotFound || env.Message != "Problem not found" {
		t.Fatalf("expected 404 'Problem not found', got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestProblemInvalidID(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.doJSON(t, http.MethodGet, "/api/problem/xyz", nil, false)
	if rec.Code != http.StatusBadRequest || env.Message != "Invalid problem ID" {
		t.Fatalf("expected 400 'Invalid problem ID', got %d body %s", rec.Code, rec.Body.String())
	}
}
