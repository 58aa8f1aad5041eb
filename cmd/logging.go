package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets the logrus level and picks JSON output in production
func ConfigureLogging(level, environment string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	log.SetLevel(parsed)

	if environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
