package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Gemini  GeminiConfig
	Tracker TrackerConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type TrackerConfig struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
}

// PipelineEnabled reports whether the story pipeline can run at all.
func (c *Config) PipelineEnabled() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// TrackerEnabled reports whether live tracker calls are possible.
func (c *Config) TrackerEnabled() bool {
	t := c.Tracker
	return strings.TrimSpace(t.BaseURL) != "" &&
		strings.TrimSpace(t.Email) != "" &&
		strings.TrimSpace(t.APIToken) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	return &Config{
		Port: *port,
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
		},
		Tracker: TrackerConfig{
			BaseURL:    strings.TrimSpace(os.Getenv("JIRA_SERVER_URL")),
			Email:      strings.TrimSpace(os.Getenv("JIRA_EMAIL")),
			APIToken:   strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")),
			ProjectKey: firstNonEmpty(strings.TrimSpace(os.Getenv("JIRA_PROJECT_KEY")), "CWS"),
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
