package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cineplan/internal/adapters/llm"
)

func TestClient_ParseIntents(t *testing.T) {
	var gotAuth, gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel, _ = req["model"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `  [{"localisation": "Paris", "nombre": 500}] `}},
			},
		})
	}))
	defer ts.Close()

	cl, err := llm.New(ts.URL, "sk-test", "gpt-4o", 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := cl.ParseIntents(context.Background(), "5 séances à Paris pour 500 personnes")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != `[{"localisation": "Paris", "nombre": 500}]` {
		t.Fatalf("content = %q, want trimmed JSON", out)
	}
	if gotAuth != "Bearer sk-test" || gotModel != "gpt-4o" {
		t.Fatalf("auth = %q, model = %q", gotAuth, gotModel)
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := llm.New("http://example", "", "gpt-4o", 1); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestClient_BadStatusSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl, _ := llm.New(ts.URL, "sk-test", "", 100)
	if _, err := cl.ParseRefinement(context.Background(), "ajoute une salle à Lyon"); err == nil {
		t.Fatal("expected error for 429")
	}
}
