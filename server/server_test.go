package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"booktracker/library"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := library.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := Config{
		Addr:      ":0",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	return New(cfg, db)
}

// request performs one API call and decodes the JSON envelope.
func request(t *testing.T, s *Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, payload
}

// login registers a user and returns a fresh token.
func login(t *testing.T, s *Server, username string) string {
	t.Helper()

	creds := map[string]any{"username": username, "password": "sekrit"}
	if code, body := request(t, s, http.MethodPut, "/api/create-user", "", creds); code != http.StatusCreated {
		t.Fatalf("create user: status %d body %v", code, body)
	}
	code, body := request(t, s, http.MethodPost, "/api/login", "", creds)
	if code != http.StatusOK {
		t.Fatalf("login: status %d body %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %v", body)
	}
	return token
}

func createBook(t *testing.T, s *Server, token, author, title string, year, length int) {
	t.Helper()
	code, body := request(t, s, http.MethodPost, "/api/create-book", token, map[string]any{
		"author": author, "title": title, "year": year, "genre": "Fiction", "length": length,
	})
	if code != http.StatusCreated {
		t.Fatalf("create book %q: status %d body %v", title, code, body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := request(t, s, http.MethodGet, "/api/health", "", nil)
	if code != http.StatusOK || body["status"] != "success" {
		t.Fatalf("health: status %d body %v", code, body)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	code, _ := request(t, s, http.MethodGet, "/api/get-current-book", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("want 401 without token, got %d", code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)
	login(t, s, "alice")

	code, _ := request(t, s, http.MethodPost, "/api/login", "", map[string]any{
		"username": "alice", "password": "wrong",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("want 401 for bad password, got %d", code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")

	if code, _ := request(t, s, http.MethodPost, "/api/logout", token, nil); code != http.StatusOK {
		t.Fatalf("logout failed with %d", code)
	}
	code, _ := request(t, s, http.MethodGet, "/api/get-current-book", token, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("revoked token should be rejected, got %d", code)
	}
}

func TestReadingListFlow(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")

	createBook(t, s, token, "George Orwell", "1984", 1949, 328)
	createBook(t, s, token, "Ray Bradbury", "Fahrenheit 451", 1953, 194)

	add := func(author, title string, year int) {
		code, body := request(t, s, http.MethodPost, "/api/add-book-to-reading-list", token, map[string]any{
			"author": author, "title": title, "year": year,
		})
		if code != http.StatusCreated {
			t.Fatalf("add %q: status %d body %v", title, code, body)
		}
	}
	add("George Orwell", "1984", 1949)
	add("Ray Bradbury", "Fahrenheit 451", 1953)

	// Current book is the first one added.
	code, body := request(t, s, http.MethodGet, "/api/get-current-book", token, nil)
	if code != http.StatusOK {
		t.Fatalf("get current: status %d", code)
	}
	book, _ := body["book"].(map[string]any)
	if book["title"] != "1984" {
		t.Fatalf("current book should be 1984, got %v", book["title"])
	}

	// Reading it bumps its count and advances the cursor.
	code, body = request(t, s, http.MethodPost, "/api/read-current-book", token, nil)
	if code != http.StatusOK {
		t.Fatalf("read current: status %d body %v", code, body)
	}
	book, _ = body["book"].(map[string]any)
	if book["read_count"] != float64(1) {
		t.Fatalf("read count should be 1, got %v", book["read_count"])
	}
	code, body = request(t, s, http.MethodGet, "/api/get-current-book", token, nil)
	book, _ = body["book"].(map[string]any)
	if code != http.StatusOK || book["title"] != "Fahrenheit 451" {
		t.Fatalf("cursor should have advanced, got %v", book["title"])
	}

	// Length and page total.
	_, body = request(t, s, http.MethodGet, "/api/get-reading-list-length", token, nil)
	if body["length"] != float64(2) || body["total_pages"] != float64(522) {
		t.Fatalf("unexpected summary: %v", body)
	}

	// The read shows up on the leaderboard, which is public.
	_, body = request(t, s, http.MethodGet, "/api/book-leaderboard", "", nil)
	boards, _ := body["leaderboard"].([]any)
	if len(boards) != 2 {
		t.Fatalf("want 2 leaderboard rows, got %d", len(boards))
	}
	first, _ := boards[0].(map[string]any)
	if first["title"] != "1984" {
		t.Fatalf("1984 should lead the board, got %v", first["title"])
	}
}

func TestListsAreScopedToUser(t *testing.T) {
	s := newTestServer(t)
	alice := login(t, s, "alice")
	bob := login(t, s, "bob")

	createBook(t, s, alice, "George Orwell", "1984", 1949, 328)
	code, _ := request(t, s, http.MethodPost, "/api/add-book-to-reading-list", alice, map[string]any{
		"author": "George Orwell", "title": "1984", "year": 1949,
	})
	if code != http.StatusCreated {
		t.Fatalf("add: status %d", code)
	}

	// Bob's list is untouched by Alice's add.
	code, _ = request(t, s, http.MethodGet, "/api/get-current-book", bob, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bob's empty list should report 400, got %d", code)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")

	// ValidationError -> 400
	code, _ := request(t, s, http.MethodPost, "/api/create-book", token, map[string]any{
		"author": "A", "title": "T", "year": 1800, "genre": "G", "length": 10,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("year 1800 should be 400, got %d", code)
	}

	// NotFound -> 404
	code, _ = request(t, s, http.MethodGet, "/api/get-book-from-catalog-by-id/9999", token, nil)
	if code != http.StatusNotFound {
		t.Fatalf("missing book should be 404, got %d", code)
	}

	// InvalidSelection -> 400
	code, _ = request(t, s, http.MethodPost, "/api/go-to-selection-number/5", token, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("selection on empty list should be 400, got %d", code)
	}

	// EmptyList -> 400
	code, _ = request(t, s, http.MethodPost, "/api/read-current-book", token, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("reading an empty list should be 400, got %d", code)
	}
}

func TestRequestLogCarriesMappedStatus(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	code, _ := request(t, s, http.MethodGet, "/api/get-book-from-catalog-by-id/9999", token, nil)
	if code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", code)
	}
	// The request line must show the status the client saw, not the
	// pre-error-handler default.
	if !strings.Contains(buf.String(), "status=404") {
		t.Fatalf("request log should carry the mapped status, got %q", buf.String())
	}
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")

	code, _ := request(t, s, http.MethodPost, "/api/change-password", token, map[string]any{
		"new_password": "better",
	})
	if code != http.StatusOK {
		t.Fatalf("change password: status %d", code)
	}

	code, _ = request(t, s, http.MethodPost, "/api/login", "", map[string]any{
		"username": "alice", "password": "better",
	})
	if code != http.StatusOK {
		t.Fatalf("login with new password: status %d", code)
	}
}

func TestCompoundKeyLookup(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "alice")
	createBook(t, s, token, "George Orwell", "1984", 1949, 328)

	path := fmt.Sprintf("/api/get-book-from-catalog-by-compound-key?author=%s&title=%s&year=%d",
		"George+Orwell", "1984", 1949)
	code, body := request(t, s, http.MethodGet, path, token, nil)
	if code != http.StatusOK {
		t.Fatalf("compound key lookup: status %d body %v", code, body)
	}
	book, _ := body["book"].(map[string]any)
	if book["title"] != "1984" {
		t.Fatalf("unexpected book: %v", book)
	}
}
