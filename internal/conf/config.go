// config.go: This file contains the configuration for the MediPlant-Go application. It defines the settings struct and functions to load and save the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// Log rotation types
const (
	RotationDaily  = "daily"
	RotationWeekly = "weekly"
	RotationSize   = "size"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool   // true to enable this log
	Path     string // path to log file
	Rotation string // rotation type, "daily", "weekly" or "size"
	MaxSize  int64  // max size in bytes for size rotation
}

// MainSettings contains top level application settings.
type MainSettings struct {
	Name string    // name of the node, can be used to identify the instance
	Log  LogConfig // main application log settings
}

// WebServerSettings contains settings for the HTTP API server.
type WebServerSettings struct {
	Enabled bool      // true to enable the web server
	Port    string    // port to listen on
	Debug   bool      // true to enable debug logging of requests
	Log     LogConfig // web server log settings
}

// SQLiteSettings contains settings for the SQLite database.
type SQLiteSettings struct {
	Enabled bool   // true to enable SQLite storage
	Path    string // path to SQLite database file
}

// MySQLSettings contains settings for the MySQL database.
type MySQLSettings struct {
	Enabled  bool   // true to enable MySQL storage
	Username string // MySQL username
	Password string // MySQL password
	Database string // MySQL database name
	Host     string // MySQL host
	Port     string // MySQL port
}

// OutputSettings selects the persistent store. When neither database is
// enabled the application runs with the seeded in-memory store.
type OutputSettings struct {
	SQLite SQLiteSettings // SQLite database settings
	MySQL  MySQLSettings  // MySQL database settings
}

// VisionSettings contains settings for the Google Vision identification provider.
type VisionSettings struct {
	Enabled         bool   // true to enable the Vision API provider
	CredentialsFile string // path to Google service account credentials
}

// LLMSettings contains settings for the language-model identification provider.
type LLMSettings struct {
	Enabled bool   // true to enable the LLM provider
	Model   string // model name, e.g. "gpt-4o-mini"
	APIKey  string // provider API key
}

// FixtureSettings controls the deterministic identification double.
// This is a test fixture, not a classifier, and should stay disabled in production.
type FixtureSettings struct {
	Enabled bool // true to enable the fixture provider
}

// IdentifySettings contains settings for plant identification.
type IdentifySettings struct {
	UnknownThreshold float64         // confidence (0-100) below which an identification is marked unknown
	TopK             int             // number of candidate labels to record per identification
	Vision           VisionSettings  // Google Vision provider settings
	LLM              LLMSettings     // language-model provider settings
	Fixture          FixtureSettings // deterministic fixture settings
}

// SpeechSettings contains settings for text-to-speech synthesis.
type SpeechSettings struct {
	Enabled         bool   // true to enable TTS synthesis
	CredentialsFile string // path to Google service account credentials
	CacheDir        string // directory for synthesized audio files
}

// MessagingSettings contains settings for outbound SMS/WhatsApp dispatch.
type MessagingSettings struct {
	Enabled        bool     // true to enable outbound messaging
	SMSURLs        []string // shoutrrr service URLs for SMS delivery
	WhatsAppURLs   []string // shoutrrr service URLs for WhatsApp delivery
	TimeoutSeconds int      // per-send timeout in seconds
}

// I18nSettings contains settings for localized content display.
type I18nSettings struct {
	DefaultLanguage string // BCP 47 tag used when no language is requested
}

// SentrySettings contains settings for error telemetry.
type SentrySettings struct {
	Enabled bool   // true to enable Sentry error reporting
	DSN     string // Sentry DSN
}

// MetricsSettings contains settings for the Prometheus telemetry endpoint.
type MetricsSettings struct {
	Enabled bool   // true to enable Prometheus compatible telemetry endpoint
	Listen  string // IP address and port to listen on
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug mode

	Main      MainSettings      // main application settings
	WebServer WebServerSettings // web server settings
	Output    OutputSettings    // storage settings
	Identify  IdentifySettings  // identification settings
	Speech    SpeechSettings    // text-to-speech settings
	Messaging MessagingSettings // outbound messaging settings
	I18n      I18nSettings      // localization settings
	Sentry    SentrySettings    // error telemetry settings
	Metrics   MetricsSettings   // metrics endpoint settings

	Version   string `yaml:"-"` // build version, runtime value
	BuildDate string `yaml:"-"` // build date, runtime value
}

// Load reads the configuration file and environment variables into a Settings struct.
func Load() (*Settings, error) {
	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Get OS specific config paths
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	// Assign config paths to Viper
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	// Create directories for config file
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	// Write default config file
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the paths to search for a config file,
// in priority order: working directory, then the user config directory.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user config directory: %w", err)
	}
	return []string{".", filepath.Join(configDir, "mediplant-go")}, nil
}

// SaveYAMLConfig writes the settings to the given path, replacing the file atomically.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		// Clean up the temporary file on failure
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
