package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Contact relay kinds.
const (
	RelayForm = "form"
	RelaySMTP = "smtp"
)

// Settings holds process configuration read from the environment.
type Settings struct {
	Server  ServerSettings
	Contact ContactSettings
	GitHub  GitHubSettings
	Logging LoggingSettings
}

type ServerSettings struct {
	Port            string
	Mode            string // gin mode: debug, release, test
	ConfigPath      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ContactSettings struct {
	Relay      string
	FormURL    string
	Timeout    time.Duration
	ResetAfter time.Duration
	SessionTTL time.Duration
	RateRPS    float64
	RateBurst  int
	SMTP       SMTPSettings
}

type SMTPSettings struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type GitHubSettings struct {
	APIURL     string
	Token      string
	Timeout    time.Duration
	ProfileTTL time.Duration
}

type LoggingSettings struct {
	Level  string
	Pretty bool
}

// LoadSettings reads the environment. A .env file, if any, has already been
// applied by the godotenv autoloader in main.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		Server: ServerSettings{
			Port:            getEnvOrDefault("PORT", "8080"),
			Mode:            getEnvOrDefault("GIN_MODE", "debug"),
			ConfigPath:      getEnvOrDefault("CONFIG_PATH", "gitprofile.yaml"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Contact: ContactSettings{
			Relay:      strings.ToLower(getEnvOrDefault("CONTACT_RELAY", RelayForm)),
			FormURL:    os.Getenv("CONTACT_FORM_URL"),
			Timeout:    getDurationOrDefault("HTTP_CLIENT_TIMEOUT", 15*time.Second),
			ResetAfter: getDurationOrDefault("CONTACT_RESET_AFTER", 5*time.Second),
			SessionTTL: getDurationOrDefault("CONTACT_SESSION_TTL", 30*time.Minute),
			RateRPS:    getFloatOrDefault("CONTACT_RATE_RPS", 0.2),
			RateBurst:  getIntOrDefault("CONTACT_RATE_BURST", 3),
			SMTP: SMTPSettings{
				Host: getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
				Port: getEnvOrDefault("SMTP_PORT", "587"),
				User: os.Getenv("SMTP_USER"),
				Pass: os.Getenv("SMTP_PASS"),
				To:   os.Getenv("TO_EMAIL"),
			},
		},
		GitHub: GitHubSettings{
			APIURL:     strings.TrimRight(getEnvOrDefault("GITHUB_API_URL", "https://api.github.com"), "/"),
			Token:      os.Getenv("GITHUB_TOKEN"),
			Timeout:    getDurationOrDefault("HTTP_CLIENT_TIMEOUT", 15*time.Second),
			ProfileTTL: getDurationOrDefault("PROFILE_TTL", 10*time.Minute),
		},
		Logging: LoggingSettings{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Pretty: getBoolOrDefault("LOG_PRETTY", false),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for missing or inconsistent values.
func (s *Settings) Validate() error {
	var errs []string

	switch s.Contact.Relay {
	case RelayForm:
		if s.Contact.FormURL == "" {
			errs = append(errs, "CONTACT_FORM_URL is required when CONTACT_RELAY=form")
		}
	case RelaySMTP:
		if s.Contact.SMTP.User == "" || s.Contact.SMTP.Pass == "" {
			errs = append(errs, "SMTP_USER and SMTP_PASS are required when CONTACT_RELAY=smtp")
		}
		if s.Contact.SMTP.To == "" {
			errs = append(errs, "TO_EMAIL is required when CONTACT_RELAY=smtp")
		}
	default:
		errs = append(errs, "CONTACT_RELAY must be \"form\" or \"smtp\"")
	}

	if s.Contact.RateRPS <= 0 || s.Contact.RateBurst < 1 {
		errs = append(errs, "CONTACT_RATE_RPS and CONTACT_RATE_BURST must be positive")
	}
	if s.Contact.ResetAfter <= 0 {
		errs = append(errs, "CONTACT_RESET_AFTER must be positive")
	}
	if s.GitHub.ProfileTTL <= 0 {
		errs = append(errs, "PROFILE_TTL must be positive")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (s *Settings) IsRelease() bool {
	return s.Server.Mode == "release"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
