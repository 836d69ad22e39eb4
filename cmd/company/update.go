package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/0x13a/jobdash/internal/api"
	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/config"
	"github.com/0x13a/jobdash/internal/server"
)

// company checks that every enabled company's career page still loads and
// mentions its search term. With -disable-unreachable, companies whose page
// cannot be fetched are switched off through the API.
func main() {
	disable := flag.Bool("disable-unreachable", false, "disable companies whose career page cannot be fetched")
	perHost := flag.Float64("rps", 1, "requests per second per career page host")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	logger := server.NewLogger(cfg.Env)
	client, err := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create api client")
	}

	ctx := context.Background()
	cs, err := client.ListCompanies(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to list companies")
	}
	logger.Info().Int("companies", len(cs)).Msg("checking career pages")

	checker := company.NewPageChecker(&http.Client{Timeout: 30 * time.Second}, *perHost, 1)
	var unreachable int
	for _, c := range cs {
		if !c.Enabled {
			continue
		}
		res := checker.Check(ctx, c)
		if res.Reachable() {
			logger.Info().
				Str("company", c.Name).
				Str("title", res.Title).
				Int("mentions", res.Mentions).
				Msg("ok")
			continue
		}
		unreachable++
		logger.Warn().Err(res.Err).Str("company", c.Name).Str("url", c.CareerURL).Msg("unreachable")
		if !*disable {
			continue
		}
		req := c.Request()
		req.Enabled = false
		if _, err := client.UpdateCompany(ctx, c.ID, req); err != nil {
			logger.Error().Err(err).Str("company", c.Name).Msg("unable to disable company")
			continue
		}
		logger.Info().Str("company", c.Name).Msg("disabled")
	}
	logger.Info().Int("unreachable", unreachable).Msg("done")
}
