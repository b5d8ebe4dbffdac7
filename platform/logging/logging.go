package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logger. JSON output in production,
// human-readable otherwise.
func Init() {
	if os.Getenv("APP_ENV") == "production" {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.DebugLevel)
	}
	log.SetOutput(os.Stdout)
}
