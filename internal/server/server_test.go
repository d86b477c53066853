package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/rowanhart/tasklist/internal/auth"
	"github.com/rowanhart/tasklist/internal/config"
	"github.com/rowanhart/tasklist/internal/database"
)

// startTestServer runs the full router, middleware stack included, on a
// listening httptest server.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{JWTSecret: "test-secret", Env: "development"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := httptest.NewServer(New(db, cfg, logger).Router())
	t.Cleanup(ts.Close)
	return ts
}

func registerAndLogin(t *testing.T, ts *httptest.Server, email string) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"pw"}`

	resp, err := http.Post(ts.URL+"/api/auth/signup", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	resp, err = http.Post(ts.URL+"/api/auth/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response set no session cookie")
	return nil
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebsocketUpgradeThroughRouter(t *testing.T) {
	ts := startTestServer(t)
	cookie := registerAndLogin(t, ts, "a@x.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set("Cookie", cookie.String())
	conn, _, err := ws.Dial(ctx, wsURL(ts), &ws.DialOptions{HTTPHeader: header})
	if err != nil {
		t.Fatalf("dial with valid cookie: %v", err)
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	// Give the server side a moment to register the client with the hub
	// before mutating data.
	time.Sleep(100 * time.Millisecond)

	req, _ := http.NewRequest("POST", ts.URL+"/api/todos", strings.NewReader(`{"title":"buy milk"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create todo status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var event struct {
		Type   string `json:"type"`
		Entity string `json:"entity"`
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode event %q: %v", data, err)
	}
	if event.Entity != "todo" || event.Action != "created" {
		t.Errorf("event = %+v, want todo/created", event)
	}
}

func TestWebsocketRequiresAuth(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := ws.Dial(ctx, wsURL(ts), nil)
	if err == nil {
		conn.Close(ws.StatusNormalClosure, "")
		t.Fatal("expected dial without a cookie to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake response = %v, want status %d", resp, http.StatusUnauthorized)
	}
}

func TestPagesRenderThroughRouter(t *testing.T) {
	ts := startTestServer(t)
	cookie := registerAndLogin(t, ts, "a@x.com")

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	req, _ := http.NewRequest("GET", ts.URL+"/", nil)
	req.AddCookie(cookie)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("get home: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("home content-type = %q, want text/html", ct)
	}

	resp2, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get home unauthenticated: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusSeeOther {
		t.Errorf("unauthenticated home status = %d, want %d", resp2.StatusCode, http.StatusSeeOther)
	}
	if loc := resp2.Header.Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}
