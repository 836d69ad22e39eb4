package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/0x13a/jobdash/internal/api"
	"github.com/0x13a/jobdash/internal/config"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/runlog"
	"github.com/0x13a/jobdash/internal/server"

	humanize "github.com/dustin/go-humanize"
)

// refresh asks the job tracker to check every company now and prints the
// totals afterwards.
func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "give up waiting for the refresh after this long")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	logger := server.NewLogger(cfg.Env)
	client, err := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create api client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	logger.Info().Str("api", cfg.APIBaseURL).Msg("triggering refresh")
	if err := client.TriggerRefresh(ctx); err != nil {
		logger.Fatal().Err(err).Msg("refresh failed")
	}
	logger.Info().Dur("took", time.Since(start)).Msg("refresh done")

	stats, err := client.GetStats(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to fetch stats")
	}
	logs, err := client.ListLogs(ctx, cfg.LogsLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to fetch run logs")
	}

	fmt.Fprintf(os.Stdout, "Total jobs: %s\n", humanize.Comma(int64(stats.TotalJobs)))
	fmt.Fprintf(os.Stdout, "Notified:   %s\n", humanize.Comma(int64(stats.Notified)))
	if len(logs) > 0 {
		last := logs[0]
		fmt.Fprintf(os.Stdout, "Last run:   %s, %d new jobs, %s\n", last.Status, last.NewJobs, humanize.Time(last.RunAt))
		if !last.Succeeded() && last.ErrorMessage != "" {
			fmt.Fprintf(os.Stdout, "Error:      %s\n", last.ErrorMessage)
		}
	}
	if summary := runlog.SummarizeDurations(logs); summary.Runs > 0 {
		fmt.Fprintf(os.Stdout, "Durations over %d runs: mean %s, min %s, max %s\n",
			summary.Runs, summary.Mean.Round(time.Millisecond), summary.Min, summary.Max)
	}
	for _, c := range sortedCounts(stats.ByCompany) {
		fmt.Fprintf(os.Stdout, "  %-30s %d\n", c.Company, c.Count)
	}
}

func sortedCounts(byCompany map[string]int) []job.CompanyCount {
	counts := make([]job.CompanyCount, 0, len(byCompany))
	for name, n := range byCompany {
		counts = append(counts, job.CompanyCount{Company: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Company < counts[j].Company
	})
	return counts
}
