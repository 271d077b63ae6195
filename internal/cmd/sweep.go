package cmd

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"samovar/internal/infrastructure/logger"
)

var (
	sweepBaseURL string
	sweepSecret  string
	sweepJob     string
)

// sweepCmd is the scheduler-side trigger: it POSTs the lifecycle
// endpoints of a running server with the shared secret. A cron entry
// runs it once per day; retries are safe because the sweeps are
// idempotent.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Trigger the daily lifecycle sweeps on a running server",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepBaseURL, "base-url", "http://localhost:8080", "server base URL")
	sweepCmd.Flags().StringVar(&sweepSecret, "secret", "", "cron secret (defaults to CRON_SECRET from config)")
	sweepCmd.Flags().StringVar(&sweepJob, "job", "all", "which sweep to run: transition, cleanup, or all")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	zapLogger, err := logger.NewConsole("info")
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	secret := sweepSecret
	if secret == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		secret = cfg.Order.CronSecret
	}
	if secret == "" {
		return fmt.Errorf("no cron secret: pass --secret or set CRON_SECRET")
	}

	var jobs []string
	switch sweepJob {
	case "transition":
		jobs = []string{"/orders/auto-transition"}
	case "cleanup":
		jobs = []string{"/orders/cleanup"}
	case "all":
		jobs = []string{"/orders/auto-transition", "/orders/cleanup"}
	default:
		return fmt.Errorf("unknown job %q: want transition, cleanup, or all", sweepJob)
	}

	client := &http.Client{Timeout: 60 * time.Second}

	// The two sweeps are independent; run them concurrently.
	var wg sync.WaitGroup
	results := make([]error, len(jobs))
	for i, path := range jobs {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i] = trigger(client, zapLogger, sweepBaseURL+path, secret)
		}(i, path)
	}
	wg.Wait()

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

func trigger(client *http.Client, logger *zap.Logger, url, secret string) error {
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, body)
	}

	logger.Info("sweep triggered", zap.String("url", url), zap.ByteString("response", body))
	return nil
}
