// Package server assembles the MCP server: configuration, store
// selection, tool registration, and the stdio and HTTP transports.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/selensince1817/resume-mcp/internal/config"
	"github.com/selensince1817/resume-mcp/internal/llm"
	"github.com/selensince1817/resume-mcp/internal/resume"
	"github.com/selensince1817/resume-mcp/internal/token"
	"github.com/selensince1817/resume-mcp/internal/tools"
)

// Name is the MCP server name announced to clients.
const Name = "cv_mcp_server"

// Version is set at build time via ldflags.
var Version = "dev"

// App is the composition root: it owns the MCP server, the selected
// store backend, and the optional HTTP listener.
type App struct {
	cfg     *config.Config
	mcp     *mcpserver.MCPServer
	llm     llm.Client
	httpSrv *Server
	cleanup func()
}

// New resolves every dependency from configuration and registers the
// tool set. The returned App serves either stdio or HTTP.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	reg, err := resume.NewRegistry(cfg.Registry.MasterPath, cfg.Registry.Sections)
	if err != nil {
		return nil, fmt.Errorf("section registry: %w", err)
	}
	bundle, err := initStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := resume.NewService(bundle.store, reg, nil)
	if err != nil {
		bundle.cleanup()
		return nil, err
	}

	llmClient := initLLM(ctx, cfg)

	s := mcpserver.NewMCPServer(
		Name,
		Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(instructions(reg)),
	)
	tools.Register(s, tools.Host{
		Service:  svc,
		Project:  cfg.ProjectName,
		LLM:      llmClient,
		Projects: bundle.lister,
	})

	return &App{cfg: cfg, mcp: s, llm: llmClient, cleanup: bundle.cleanup}, nil
}

// initLLM builds the model client for the similarity tool. A failure
// disables the tool rather than the server: tailoring works without it.
func initLLM(ctx context.Context, cfg *config.Config) llm.Client {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "", "none", "off":
		return nil
	case "fake":
		return llm.NewFakeClient()
	case "gemini":
		cli, err := llm.NewGeminiClient(ctx, cfg.LLM.Model, int32(cfg.LLM.MaxTokens))
		if err != nil {
			log.Printf("WARNING: similarity assessment disabled: %v", err)
			return nil
		}
		return cli
	default:
		log.Printf("WARNING: unknown llm provider %q, similarity assessment disabled", cfg.LLM.Provider)
		return nil
	}
}

// ServeStdio attaches the MCP server to stdin/stdout. Logs go to
// stderr so they stay off the protocol stream.
func (a *App) ServeStdio() error {
	log.Printf("serving MCP over stdio (project %q)", a.cfg.ProjectName)
	return mcpserver.ServeStdio(a.mcp)
}

// StartHTTP serves the SSE transport until Shutdown.
func (a *App) StartHTTP() error {
	handler, err := a.httpHandler()
	if err != nil {
		return err
	}
	a.httpSrv = NewServer(a.cfg.Addr, handler)
	return a.httpSrv.Start()
}

// httpHandler assembles the SSE transport, the health endpoint, and
// bearer auth when enabled.
func (a *App) httpHandler() (http.Handler, error) {
	sse := mcpserver.NewSSEServer(a.mcp)
	var agent http.Handler = sse
	if a.cfg.Auth.Enabled {
		pub, err := token.LoadPublicKey(a.cfg.Auth.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load auth public key: %w", err)
		}
		agent = bearerAuth(pub, a.cfg.Auth.Audience, agent)
	}
	mux := http.NewServeMux()
	mux.Handle("/sse", agent)
	mux.Handle("/message", agent)
	mux.HandleFunc("/healthz", handleHealth)
	return mux, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":      true,
		"server":  Name,
		"version": Version,
	})
}

// Shutdown stops the HTTP listener, if one is running.
func (a *App) Shutdown(ctx context.Context) error {
	if a.httpSrv != nil {
		return a.httpSrv.Shutdown(ctx)
	}
	return nil
}

// Close releases the model client and the store backend.
func (a *App) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			log.Printf("WARNING: llm client close: %v", err)
		}
	}
	if a.cleanup != nil {
		a.cleanup()
	}
}
