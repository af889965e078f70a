package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/oculo/internal/testsession"
)

// Default configuration constants.
const (
	defaultScreenings   = 1
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 500 * time.Millisecond
	defaultTestTimeout  = 30 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		screenings   = flag.Int("screenings", defaultScreenings, "Number of screenings to run sequentially")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollInterval = flag.Duration("poll", defaultPollInterval, "Delay between report polls")
		skipPursuit  = flag.Bool("skip-pursuit", false, "Skip the smooth pursuit phase")
		headache     = flag.Bool("headache", false, "Report headache as a symptom")
		nausea       = flag.Bool("nausea", false, "Report nausea as a symptom")
		dizziness    = flag.Bool("dizziness", false, "Report dizziness as a symptom")
		lightSens    = flag.Bool("light-sensitivity", false, "Report light sensitivity as a symptom")
		outputFile   = flag.String("output", "", "Output file for completed reports (default: screening_reports_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for test output (default: screening_test_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testsession.ShowHelp()
		return
	}

	// Setup logging
	if err := testsession.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testsession.Config{
		BaseURL:          *baseURL,
		Screenings:       *screenings,
		Timeout:          *timeout,
		PollInterval:     *pollInterval,
		SkipPursuit:      *skipPursuit,
		Headache:         *headache,
		Nausea:           *nausea,
		Dizziness:        *dizziness,
		LightSensitivity: *lightSens,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	// Run the test
	if err := testsession.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
