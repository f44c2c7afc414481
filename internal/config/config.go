// Package config assembles process configuration from the environment,
// an optional .env file, and an optional YAML section-registry file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string
	Env         string
	ProjectName string
	Registry    RegistryConfig
	Store       StoreConfig
	Overleaf    OverleafConfig
	LLM         LLMConfig
	Auth        AuthConfig
}

// RegistryConfig describes the section registry: the master document
// plus the logical-name → fragment-path mapping.
type RegistryConfig struct {
	MasterPath string            `yaml:"master"`
	Sections   map[string]string `yaml:"sections"`
}

// StoreConfig selects the project store backend. "overleaf" talks to
// the hosted platform; "memory", "s3" and "postgres" are for local
// development and tests.
type StoreConfig struct {
	Backend     string
	PostgresDSN string
	S3          S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type OverleafConfig struct {
	BaseURL       string
	SessionCookie string
}

type LLMConfig struct {
	Provider  string
	Model     string
	MaxTokens int
}

type AuthConfig struct {
	Enabled        bool
	Audience       string
	PublicKeyPath  string
	PrivateKeyPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	addr := strings.TrimSpace(os.Getenv("PORT"))
	switch {
	case addr == "":
		addr = ":8081"
	case !strings.HasPrefix(addr, ":"):
		addr = ":" + addr
	}

	registry, err := loadRegistryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:        addr,
		Env:         env,
		ProjectName: firstNonEmpty(strings.TrimSpace(os.Getenv("CV_PROJECT_NAME")), "cv-xelatex"),
		Registry:    registry,
		Store:       loadStoreConfig(env),
		Overleaf: OverleafConfig{
			BaseURL:       strings.TrimSpace(os.Getenv("OVERLEAF_BASE_URL")),
			SessionCookie: strings.TrimSpace(os.Getenv("OVERLEAF_SESSION_COOKIE")),
		},
		LLM: LLMConfig{
			Provider:  firstNonEmpty(strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))), "gemini"),
			Model:     firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.5-flash"),
			MaxTokens: intFromEnv("LLM_MAX_TOKENS", 8192),
		},
		Auth: AuthConfig{
			Enabled:        boolFromEnv("AUTH_ENABLED", false),
			Audience:       firstNonEmpty(strings.TrimSpace(os.Getenv("AUTH_AUDIENCE")), "resume-mcp-server"),
			PublicKeyPath:  firstNonEmpty(strings.TrimSpace(os.Getenv("AUTH_PUBLIC_KEY_PATH")), "public_key.pem"),
			PrivateKeyPath: firstNonEmpty(strings.TrimSpace(os.Getenv("AUTH_PRIVATE_KEY_PATH")), "private_key.pem"),
		},
	}, nil
}

// DefaultRegistryConfig is the stock CV project layout.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		MasterPath: "main.tex",
		Sections: map[string]string{
			"heading":               "sections/heading.tex",
			"education":             "sections/education.tex",
			"experience":            "sections/experience.tex",
			"additional_experience": "sections/additional_experience.tex",
			"skills":                "sections/skills.tex",
		},
	}
}

// loadRegistryConfig starts from the stock layout and applies the
// optional YAML file named by CV_SECTIONS_FILE, then the
// CV_MAIN_TEX_PATH override.
func loadRegistryConfig() (RegistryConfig, error) {
	registry := DefaultRegistryConfig()

	if path := strings.TrimSpace(os.Getenv("CV_SECTIONS_FILE")); path != "" {
		loaded, err := LoadRegistryFile(path)
		if err != nil {
			return RegistryConfig{}, err
		}
		registry = loaded
	}
	if master := strings.TrimSpace(os.Getenv("CV_MAIN_TEX_PATH")); master != "" {
		registry.MasterPath = master
	}
	return registry, nil
}

// LoadRegistryFile reads a YAML section registry:
//
//	master: main.tex
//	sections:
//	  experience: sections/experience.tex
func LoadRegistryFile(path string) (RegistryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RegistryConfig{}, fmt.Errorf("read registry file %s: %w", path, err)
	}
	var registry RegistryConfig
	if err := yaml.Unmarshal(raw, &registry); err != nil {
		return RegistryConfig{}, fmt.Errorf("parse registry file %s: %w", path, err)
	}
	if registry.MasterPath == "" {
		registry.MasterPath = DefaultRegistryConfig().MasterPath
	}
	if len(registry.Sections) == 0 {
		return RegistryConfig{}, fmt.Errorf("registry file %s defines no sections", path)
	}
	return registry, nil
}

func loadStoreConfig(env string) StoreConfig {
	return StoreConfig{
		Backend:     firstNonEmpty(strings.ToLower(strings.TrimSpace(os.Getenv("RESUME_STORE_BACKEND"))), "overleaf"),
		PostgresDSN: strings.TrimSpace(os.Getenv("RESUME_PG_DSN")),
		S3: S3Config{
			Endpoint:  resolveS3Endpoint(env),
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("RESUME_S3_REGION")), "us-east-1"),
			AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("RESUME_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
			SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("RESUME_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("RESUME_S3_BUCKET")), "resume-projects"),
			UseSSL:    resolveS3UseSSL(env),
		},
	}
}

func resolveS3Endpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("RESUME_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("RESUME_S3_ENDPOINT"))
}

func resolveS3UseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	return boolFromEnv("RESUME_S3_USE_SSL", true)
}

func boolFromEnv(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func intFromEnv(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
