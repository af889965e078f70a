package testsession

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/oculo/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "screening_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the screening test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Oculo Screening Test Tool
=========================

Runs end-to-end screenings against a running Oculo service and verifies
the stored risk assessments against the stateless assessment endpoint.

Usage:
  go run cmd/test-screening/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -screenings int
        Number of screenings to run sequentially (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -poll duration
        Delay between report polls (default 500ms)
  -skip-pursuit
        Skip the smooth pursuit phase
  -headache, -nausea, -dizziness, -light-sensitivity
        Self-reported symptoms submitted with each screening
  -output string
        Output file for completed reports (default: screening_reports_TIMESTAMP.json)
  -log string
        Log file for test output (default: screening_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run a single screening with default settings
  go run cmd/test-screening/main.go

  # Run three screenings with symptoms reported
  go run cmd/test-screening/main.go -screenings 3 -headache -dizziness

  # Skip the pursuit phase against a custom endpoint
  go run cmd/test-screening/main.go -url http://localhost:8080 -skip-pursuit
`)
}
