package overleaf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresProject keeps one project's tree in a single table, one row
// per file or folder. Folders are rows with is_dir=TRUE and no content.
type PostgresProject struct {
	db      *sql.DB
	project string

	schemaOnce sync.Once
	schemaErr  error
}

// NewPostgresProject opens the DSN with the pgx driver and binds the
// store to a single project. The schema is created lazily on first use.
func NewPostgresProject(dsn, project string) (*PostgresProject, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, fmt.Errorf("project name is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresProject{db: db, project: project}, nil
}

// Close releases the underlying connection pool.
func (p *PostgresProject) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *PostgresProject) ensureSchema(ctx context.Context) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("project store is nil")
	}
	p.schemaOnce.Do(func() {
		_, p.schemaErr = p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS resume_project_files (
  project TEXT NOT NULL,
  path TEXT NOT NULL,
  is_dir BOOLEAN NOT NULL DEFAULT FALSE,
  content BYTEA,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  PRIMARY KEY (project, path)
);
CREATE INDEX IF NOT EXISTS idx_resume_project_files_project ON resume_project_files (project);
`)
	})
	return p.schemaErr
}

func (p *PostgresProject) Listdir(ctx context.Context, path string) ([]Entry, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	dir := normalizePath(path)
	if dir != "" {
		ok, err := p.isDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotFound
		}
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT path, is_dir FROM resume_project_files WHERE project = $1 ORDER BY path`,
		p.project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	out := make([]Entry, 0, 16)
	for rows.Next() {
		var rowPath string
		var isDir bool
		if err := rows.Scan(&rowPath, &isDir); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(rowPath, prefix) {
			continue
		}
		rest := strings.TrimPrefix(rowPath, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, Entry{Name: rest, IsDir: isDir})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *PostgresProject) Exists(ctx context.Context, path string) (bool, error) {
	if normalizePath(path) == "" {
		return true, nil
	}
	if err := p.ensureSchema(ctx); err != nil {
		return false, fmt.Errorf("ensure schema: %w", err)
	}
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM resume_project_files WHERE project = $1 AND path = $2`,
		p.project, normalizePath(path)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *PostgresProject) Read(ctx context.Context, path string) ([]byte, error) {
	file := normalizePath(path)
	if file == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	var isDir bool
	var content []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT is_dir, content FROM resume_project_files WHERE project = $1 AND path = $2`,
		p.project, file).Scan(&isDir, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if isDir {
		return nil, fmt.Errorf("%q is a folder", file)
	}
	if content == nil {
		content = []byte{}
	}
	return content, nil
}

func (p *PostgresProject) Write(ctx context.Context, path string, content []byte) error {
	file := normalizePath(path)
	if file == "" {
		return fmt.Errorf("path is required")
	}
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if content == nil {
		content = []byte{}
	}
	if parent, _ := splitPath(file); parent != "" {
		if err := p.mkdirAll(ctx, parent); err != nil {
			return err
		}
	}
	_, err := p.db.ExecContext(ctx, `
INSERT INTO resume_project_files (project, path, is_dir, content, updated_at)
VALUES ($1, $2, FALSE, $3, NOW())
ON CONFLICT (project, path)
DO UPDATE SET is_dir=FALSE, content=EXCLUDED.content, updated_at=NOW()`,
		p.project, file, content)
	return err
}

func (p *PostgresProject) Mkdir(ctx context.Context, path string) error {
	dir := normalizePath(path)
	if dir == "" {
		return nil
	}
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return p.mkdirAll(ctx, dir)
}

func (p *PostgresProject) mkdirAll(ctx context.Context, dir string) error {
	for ; dir != ""; dir, _ = splitPath(dir) {
		_, err := p.db.ExecContext(ctx, `
INSERT INTO resume_project_files (project, path, is_dir, updated_at)
VALUES ($1, $2, TRUE, NOW())
ON CONFLICT (project, path) DO NOTHING`,
			p.project, dir)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresProject) Remove(ctx context.Context, path string) error {
	target := normalizePath(path)
	if target == "" {
		return fmt.Errorf("path is required")
	}
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var isDir bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_dir FROM resume_project_files WHERE project = $1 AND path = $2 FOR UPDATE`,
		p.project, target).Scan(&isDir)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if isDir {
		var children int
		err = tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM resume_project_files
WHERE project = $1 AND path LIKE $2 AND path <> $3`,
			p.project, likeEscape(target)+"/%", target).Scan(&children)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("folder %q is not empty", target)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM resume_project_files WHERE project = $1 AND path = $2`,
		p.project, target); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *PostgresProject) isDir(ctx context.Context, dir string) (bool, error) {
	var isDir bool
	err := p.db.QueryRowContext(ctx,
		`SELECT is_dir FROM resume_project_files WHERE project = $1 AND path = $2`,
		p.project, dir).Scan(&isDir)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isDir, nil
}

// likeEscape quotes LIKE metacharacters so underscores in file names
// match literally.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
