package config

import "fmt"

// ConfigurationError is returned when a required setting is missing or unusable.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is required", e.Key)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}
