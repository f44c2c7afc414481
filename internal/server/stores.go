package server

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/selensince1817/resume-mcp/internal/config"
	"github.com/selensince1817/resume-mcp/internal/overleaf"
	"github.com/selensince1817/resume-mcp/internal/tools"
)

// storeBundle is the selected project store plus whatever optional
// collaborators the backend brings along.
type storeBundle struct {
	store   overleaf.ProjectStore
	lister  tools.ProjectLister
	cleanup func()
}

func noop() {}

// initStore selects the project store backend from configuration. Only
// the overleaf backend can list projects; the others serve a single
// named project.
func initStore(ctx context.Context, cfg *config.Config) (*storeBundle, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch backend {
	case "", "overleaf":
		client, err := overleaf.NewClient(cfg.Overleaf.BaseURL, cfg.Overleaf.SessionCookie)
		if err != nil {
			return nil, fmt.Errorf("project store: %w", err)
		}
		project, err := client.OpenProject(ctx, cfg.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("open project %q: %w", cfg.ProjectName, err)
		}
		log.Printf("project store: overleaf project=%s id=%s", cfg.ProjectName, project.ID())
		return &storeBundle{store: project, lister: client, cleanup: noop}, nil
	case "s3":
		s3Cfg := overleaf.S3Config{
			Endpoint:  cfg.Store.S3.Endpoint,
			Region:    cfg.Store.S3.Region,
			AccessKey: cfg.Store.S3.AccessKey,
			SecretKey: cfg.Store.S3.SecretKey,
			Bucket:    cfg.Store.S3.Bucket,
			UseSSL:    cfg.Store.S3.UseSSL,
		}
		store, err := overleaf.NewS3Project(s3Cfg, cfg.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("project store: %w", err)
		}
		log.Printf("project store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
		return &storeBundle{store: store, cleanup: noop}, nil
	case "postgres":
		store, err := overleaf.NewPostgresProject(cfg.Store.PostgresDSN, cfg.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("project store: %w", err)
		}
		log.Printf("project store: postgres project=%s", cfg.ProjectName)
		cleanup := func() {
			if err := store.Close(); err != nil {
				log.Printf("WARNING: postgres store close: %v", err)
			}
		}
		return &storeBundle{store: store, cleanup: cleanup}, nil
	case "memory":
		log.Printf("project store: in-memory (volatile)")
		return &storeBundle{store: overleaf.NewMemoryProject(), cleanup: noop}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
