package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func geminiReply(text string) string {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
	out, _ := json.Marshal(reply)
	return string(out)
}

func testExtractor(serverURL string) *geminiExtractor {
	return &geminiExtractor{
		apiKey:  "test-key",
		model:   "test-model",
		baseURL: serverURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestExtractDishesSendsImageAndParsesReply(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(geminiReply(`{"dishes":[{"name":"Nasi Goreng","price":"25k"},{"name":"Es Teh","category":"drink"}]}`)))
	}))
	defer server.Close()

	dishes, err := testExtractor(server.URL).ExtractDishes(context.Background(), []byte("fake image"), "image/jpeg")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if gotPath != "/v1beta/models/test-model:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["contents"] == nil {
		t.Fatalf("request carried no contents")
	}

	if len(dishes) != 2 {
		t.Fatalf("expected 2 dishes, got %d", len(dishes))
	}
	if dishes[0].Name != "Nasi Goreng" || dishes[0].Price != "25k" {
		t.Fatalf("unexpected first dish: %+v", dishes[0])
	}
}

func TestExtractDishesReportsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testExtractor(server.URL).ExtractDishes(context.Background(), []byte("fake image"), "image/jpeg")
	if err == nil {
		t.Fatalf("expected error on upstream failure")
	}
	if !strings.Contains(err.Error(), "gemini API error") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDishesStripsCodeFences(t *testing.T) {
	text := "```json\n{\"dishes\":[{\"name\":\"Sate Ayam\"}]}\n```"

	dishes, err := parseDishes(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Sate Ayam" {
		t.Fatalf("unexpected dishes: %+v", dishes)
	}
}

func TestParseDishesExtractsJSONFromChatter(t *testing.T) {
	text := `Here is what I found: {"dishes":[{"name":"Rendang"}]} hope this helps!`

	dishes, err := parseDishes(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Rendang" {
		t.Fatalf("unexpected dishes: %+v", dishes)
	}
}

func TestParseDishesDropsNamelessCandidates(t *testing.T) {
	text := `{"dishes":[{"name":"  "},{"name":"Gado Gado"}]}`

	dishes, err := parseDishes(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Gado Gado" {
		t.Fatalf("nameless candidates should be dropped: %+v", dishes)
	}
}

func TestParseDishesRejectsNonJSON(t *testing.T) {
	if _, err := parseDishes("I could not read the menu, sorry."); err == nil {
		t.Fatalf("expected error for non-JSON reply")
	}
}
