package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/selensince1817/resume-mcp/internal/config"
	"github.com/selensince1817/resume-mcp/internal/token"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:        ":0",
		Env:         "test",
		ProjectName: "cv-xelatex",
		Registry:    config.DefaultRegistryConfig(),
		Store:       config.StoreConfig{Backend: "memory"},
		LLM:         config.LLMConfig{Provider: "fake", Model: "fake", MaxTokens: 64},
		Auth:        config.AuthConfig{Audience: token.DefaultAudience},
	}
}

func toolsList(t *testing.T, a *App) string {
	t.Helper()
	raw := a.mcp.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal tools/list response: %v", err)
	}
	return string(b)
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	listing := toolsList(t, a)
	for _, name := range []string{
		"get_full_resume",
		"read_cv_section",
		"create_tailored_section",
		"update_main_tex_with_new_sections",
		"assess_profile_similarity",
	} {
		if !strings.Contains(listing, name) {
			t.Fatalf("tools/list missing %s: %s", name, listing)
		}
	}
	// The memory backend has no authenticated session to enumerate.
	if strings.Contains(listing, "list_projects") {
		t.Fatalf("list_projects registered without a platform client")
	}
}

func TestNew_LLMDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "none"
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if strings.Contains(toolsList(t, a), "assess_profile_similarity") {
		t.Fatalf("assess_profile_similarity registered without a model client")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "floppy"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown store backend")
	}
}

func TestNew_BadRegistry(t *testing.T) {
	cfg := testConfig()
	cfg.Registry.Sections = map[string]string{"skills": "skills.tex"}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for rootless canonical path")
	}
}

func TestHTTPHandler_Health(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	handler, err := a.httpHandler()
	if err != nil {
		t.Fatalf("http handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode healthz body: %v", err)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("unexpected healthz body %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("healthz POST status = %d", rec.Code)
	}
}

func TestHTTPHandler_BearerAuth(t *testing.T) {
	pub, priv, err := token.GenerateKeys()
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "public_key.pem")
	privPath := filepath.Join(dir, "private_key.pem")
	if err := token.WriteKeyPair(pub, priv, pubPath, privPath); err != nil {
		t.Fatalf("write key pair: %v", err)
	}

	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.PublicKeyPath = pubPath
	cfg.Auth.PrivateKeyPath = privPath

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	handler, err := a.httpHandler()
	if err != nil {
		t.Fatalf("http handler: %v", err)
	}

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/message", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", rec.Code)
	}

	// Token minted for another audience.
	claims, err := token.NewClaims("tester", "other-service", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("new claims: %v", err)
	}
	wrong, err := token.MintString(priv, claims)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set("Authorization", "Bearer "+wrong)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong audience status = %d", rec.Code)
	}

	// Valid token: the request clears auth and reaches the transport.
	claims, err = token.NewClaims("tester", cfg.Auth.Audience, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("new claims: %v", err)
	}
	good, err := token.MintString(priv, claims)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	handler.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("valid token rejected: %d %s", rec.Code, rec.Body.String())
	}

	// Health stays open.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz behind auth status = %d", rec.Code)
	}
}

func TestHTTPHandler_MissingPublicKey(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.PublicKeyPath = filepath.Join(t.TempDir(), "absent.pem")

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if _, err := a.httpHandler(); err == nil {
		t.Fatalf("expected error for missing public key")
	}
}

func TestInstructions(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	// The instructions travel with the initialize response.
	raw := a.mcp.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal initialize response: %v", err)
	}
	for _, want := range []string{"cv_mcp_server", "get_full_resume", "create_tailored_section", "update_main_tex_with_new_sections", "main.tex"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("initialize response missing %q", want)
		}
	}
}
