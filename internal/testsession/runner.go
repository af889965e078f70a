package testsession

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/oculo/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete screening session test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.PollBudget <= 0 {
		config.PollBudget = DefaultPollBudget
	}

	logger.Get().Info(ctx, "starting oculo screening test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("screenings", config.Screenings),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("skipPursuit", config.SkipPursuit),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	client := newHTTPClient(config.Timeout)
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Run screenings sequentially (the camera is exclusive)
	reports := make([]*report, 0, config.Screenings)
	for i := 0; i < config.Screenings; i++ {
		r, err := runSingleScreening(ctx, client, config, stats, i+1)
		if err != nil {
			return fmt.Errorf("screening %d failed: %w", i+1, err)
		}
		reports = append(reports, r)
	}

	// Step 3: Fetch service counters
	if s, err := fetchStats(ctx, client, config); err != nil {
		logger.Get().Warn(ctx, "failed to fetch service stats", logger.Error(err))
	} else {
		logger.Get().Info(ctx, "service stats",
			logger.Int("queuedScreenings", s.QueuedScreenings),
			logger.Int("storedReports", s.StoredReports))
	}

	// Step 4: Save reports to file
	if err := saveReportsToFile(ctx, config, reports); err != nil {
		logger.Get().Warn(ctx, "failed to save reports to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.ScreeningsFailed > 0 || stats.AssessmentMismatches > 0 {
		return fmt.Errorf("%d screenings failed, %d assessment mismatches",
			stats.ScreeningsFailed, stats.AssessmentMismatches)
	}

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// runSingleScreening starts one screening, waits for it and checks the result.
func runSingleScreening(ctx context.Context, client *HTTPClient, config *Config, stats *Stats, seq int) (*report, error) {
	logger.Get().Info(ctx, "starting screening", logger.Int("seq", seq))

	id, err := startScreening(ctx, client, config)
	if err != nil {
		return nil, err
	}
	stats.ScreeningsStarted++
	logger.Get().Info(ctx, "screening queued", logger.String("id", id))

	r, err := pollReport(ctx, client, config, id)
	if err != nil {
		return nil, err
	}

	if r.Status == "failed" {
		stats.ScreeningsFailed++
		logger.Get().Warn(ctx, "screening failed",
			logger.String("id", id),
			logger.String("error", r.Error))
		return r, nil
	}

	stats.ScreeningsCompleted++
	displayReport(r, config.Verbose)

	if err := verifyAssessment(ctx, client, config, r, stats); err != nil {
		logger.Get().Warn(ctx, "assessment verification skipped", logger.Error(err))
	}

	return r, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReportsToFile saves the completed reports to a JSON file.
func saveReportsToFile(ctx context.Context, config *Config, reports []*report) error {
	if len(reports) == 0 {
		return fmt.Errorf("no reports to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "screening_reports_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, r := range reports {
		jsonData, err := marshalJSON(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write report %d: %w", i, err)
		}

		if i < len(reports)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "reports saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate float64
	if stats.ScreeningsStarted > 0 {
		successRate = float64(stats.ScreeningsCompleted) / float64(stats.ScreeningsStarted) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("screeningsStarted", stats.ScreeningsStarted),
		logger.Int("screeningsCompleted", stats.ScreeningsCompleted),
		logger.Int("screeningsFailed", stats.ScreeningsFailed),
		logger.Int("assessmentChecks", stats.AssessmentChecks),
		logger.Int("assessmentMismatches", stats.AssessmentMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate))
}
