package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for complex rules
// that cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	// Run struct tag validation
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Custom validation rules that can't be expressed in tags
	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// Validate the badger store has a database path
	if cfg.Identity.Type == "badger" {
		path, ok := cfg.Identity.Badger["path"].(string)
		if !ok || path == "" {
			return fmt.Errorf("identity.badger: path is required when identity.type is badger")
		}
	}

	// Validate user names are unique and roots are absolute
	names := make(map[string]bool)
	for i, user := range cfg.Identity.Users {
		if names[user.Name] {
			return fmt.Errorf("identity.users[%d]: duplicate user name %q", i, user.Name)
		}
		names[user.Name] = true

		if !filepath.IsAbs(user.Root) {
			return fmt.Errorf("identity.users[%d]: root %q must be an absolute path", i, user.Root)
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
