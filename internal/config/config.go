package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"salescrm/internal/models"
)

type ImportConfig struct {
	MaxFileBytes  int    `yaml:"max_file_bytes"`
	MaxCandidates int    `yaml:"max_candidates"`
	CountryCode   string `yaml:"country_code"`
}

type StatsConfig struct {
	// statuses that count a lead as converted in leaderboards
	ClosingStatuses []string `yaml:"closing_statuses"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	DryRun   bool   `yaml:"dry_run"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Import   ImportConfig   `yaml:"import"`
	Stats    StatsConfig    `yaml:"stats"`
	Telegram TelegramConfig `yaml:"telegram"`
	Files    struct {
		RootDir string `yaml:"root_dir"`
	} `yaml:"files"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Import.MaxFileBytes == 0 {
		cfg.Import.MaxFileBytes = 5 << 20
	}
	if cfg.Import.MaxCandidates == 0 {
		cfg.Import.MaxCandidates = 1000
	}
	if cfg.Import.CountryCode == "" {
		cfg.Import.CountryCode = "91"
	}
	if len(cfg.Stats.ClosingStatuses) == 0 {
		cfg.Stats.ClosingStatuses = []string{"converted", "app_client", "web"}
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	return &cfg
}

// ClosingStatuses converts the configured strings to typed statuses,
// dropping anything unknown so a typo never silently counts leads.
func (c *Config) ClosingStatuses() []models.LeadStatus {
	out := make([]models.LeadStatus, 0, len(c.Stats.ClosingStatuses))
	for _, raw := range c.Stats.ClosingStatuses {
		if s, ok := models.ParseLeadStatus(raw); ok {
			out = append(out, s)
		}
	}
	return out
}
