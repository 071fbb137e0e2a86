// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateIdentifySettings(&settings.Identify); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateMessagingSettings(&settings.Messaging); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid web server port: %s", settings.Port)
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings) error {
	if settings.SQLite.Enabled && settings.MySQL.Enabled {
		return fmt.Errorf("only one of output.sqlite and output.mysql may be enabled")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path must not be empty when SQLite is enabled")
	}
	if settings.MySQL.Enabled {
		if settings.MySQL.Host == "" || settings.MySQL.Database == "" {
			return fmt.Errorf("output.mysql.host and output.mysql.database must be set when MySQL is enabled")
		}
	}
	return nil
}

func validateIdentifySettings(settings *IdentifySettings) error {
	if settings.UnknownThreshold < 0 || settings.UnknownThreshold > 100 {
		return fmt.Errorf("identify.unknownthreshold must be between 0 and 100, got %g", settings.UnknownThreshold)
	}
	if settings.TopK < 1 {
		return fmt.Errorf("identify.topk must be at least 1, got %d", settings.TopK)
	}
	if settings.Vision.Enabled && settings.Vision.CredentialsFile == "" {
		return fmt.Errorf("identify.vision.credentialsfile must be set when the Vision provider is enabled")
	}
	if settings.LLM.Enabled && settings.LLM.APIKey == "" {
		return fmt.Errorf("identify.llm.apikey must be set when the LLM provider is enabled")
	}
	return nil
}

func validateMessagingSettings(settings *MessagingSettings) error {
	if !settings.Enabled {
		return nil
	}
	if len(settings.SMSURLs) == 0 && len(settings.WhatsAppURLs) == 0 {
		return fmt.Errorf("messaging enabled but no service URLs configured")
	}
	if settings.TimeoutSeconds <= 0 {
		return fmt.Errorf("messaging.timeoutseconds must be positive, got %d", settings.TimeoutSeconds)
	}
	return nil
}
