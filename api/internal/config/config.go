package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port  string
	Debug bool

	// Upstream model
	Provider        string
	UpstreamTimeout time.Duration
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	DeepseekAPIKey  string
	DeepseekModel   string
	DeepseekBaseURL string

	// Accounts
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string
	RequireAuth    bool

	TelegramBotToken string

	CORSOrigins []string

	// ExtraMisspellings extends the built-in misspelling table (lowercase wrong -> right).
	ExtraMisspellings map[string]string
}

// fileOverrides is the optional YAML file pointed to by PROMPTIFY_CONFIG.
type fileOverrides struct {
	CORSOrigins     []string `yaml:"cors_origins"`
	UpstreamTimeout string   `yaml:"upstream_timeout"`
	Spell           struct {
		Extra map[string]string `yaml:"extra"`
	} `yaml:"spell"`
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// plain integers are milliseconds
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads .env (if present), the process environment and the optional
// YAML overrides file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8000"),
		Debug: getBool("DEBUG", false),

		Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		DeepseekAPIKey:  getEnv("DEEPSEEK_API_KEY", ""),
		DeepseekModel:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepseekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         getDuration("JWT_TTL", 7*24*time.Hour),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		RequireAuth:    getBool("REQUIRE_AUTH", false),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if path := getEnv("PROMPTIFY_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fo fileOverrides
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(fo.CORSOrigins) > 0 {
		c.CORSOrigins = fo.CORSOrigins
	}
	if fo.UpstreamTimeout != "" {
		d, err := time.ParseDuration(fo.UpstreamTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config %s: bad upstream_timeout %q", path, fo.UpstreamTimeout)
		}
		c.UpstreamTimeout = d
	}
	if len(fo.Spell.Extra) > 0 {
		c.ExtraMisspellings = make(map[string]string, len(fo.Spell.Extra))
		for k, v := range fo.Spell.Extra {
			c.ExtraMisspellings[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL != "" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when DATABASE_URL is set")
	}
	if c.RequireAuth && c.JWTSecret == "" {
		return errors.New("REQUIRE_AUTH needs JWT_SECRET")
	}
	switch c.Provider {
	case "gemini", "gemini-sdk", "genai", "gpt", "openai", "deepseek":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	return nil
}
