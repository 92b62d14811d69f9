package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

// OpportunityConfig describes a volunteering programme shown on the volunteer page
type OpportunityConfig struct {
	Title       string   `yaml:"title" validate:"required"`
	Location    string   `yaml:"location" validate:"required"`
	Time        string   `yaml:"time" validate:"required"`
	Description string   `yaml:"description" validate:"required"`
	Skills      []string `yaml:"skills,omitempty"`
	Schedule    string   `yaml:"schedule,omitempty"`
}

// RateLimitConfig bounds how often a single client may hit the form endpoints
type RateLimitConfig struct {
	PerSecond float64 `yaml:"perSecond" validate:"gt=0"`
	Burst     int     `yaml:"burst" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	Addr             string              `yaml:"addr" validate:"required"`
	OrganisationName string              `yaml:"organisationName" validate:"required"`
	ContactEmail     string              `yaml:"contactEmail,omitempty" validate:"omitempty,email"`
	SecureCookies    bool                `yaml:"secureCookies,omitempty"`
	SubmissionDelay  time.Duration       `yaml:"submissionDelay" validate:"min=0"`
	VisitTTL         time.Duration       `yaml:"visitTTL" validate:"required"`
	MaxVisits        int                 `yaml:"maxVisits" validate:"min=1"`
	ShutdownTimeout  time.Duration       `yaml:"shutdownTimeout,omitempty"`
	RateLimit        RateLimitConfig     `yaml:"rateLimit"`
	Opportunities    []OpportunityConfig `yaml:"opportunities,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Defaults returns a configuration with every optional value filled in
func Defaults() Config {
	return Config{
		Addr:             ":8080",
		OrganisationName: "HopeConnect",
		SubmissionDelay:  2 * time.Second,
		VisitTTL:         30 * time.Minute,
		MaxVisits:        10000,
		ShutdownTimeout:  10 * time.Second,
		RateLimit: RateLimitConfig{
			PerSecond: 5,
			Burst:     20,
		},
	}
}

// LoadWithEnv loads and validates site_config_<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Keys missing from the file keep the values from Defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, opp := range cfg.Opportunities {
		if opp.Schedule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(opp.Schedule); err != nil {
			return fmt.Errorf("invalid rrule in opportunities[%d]: %w", i, err)
		}
	}

	return nil
}

// SiteOpportunities returns the configured opportunities, or the built-in list when none are configured
func (c *Config) SiteOpportunities() []model.Opportunity {
	if len(c.Opportunities) == 0 {
		return model.DefaultOpportunities
	}

	opps := make([]model.Opportunity, len(c.Opportunities))
	for i, o := range c.Opportunities {
		opps[i] = model.Opportunity{
			Title:       o.Title,
			Location:    o.Location,
			Time:        o.Time,
			Description: o.Description,
			Skills:      o.Skills,
			Schedule:    o.Schedule,
		}
	}
	return opps
}

func findConfigFile(env string) (string, error) {
	configFileName := fmt.Sprintf("site_config_%s.yaml", env)

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
