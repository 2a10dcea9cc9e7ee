package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/app"
	"github.com/codyseavey/cardledger/backend/internal/config"
	logpkg "github.com/codyseavey/cardledger/backend/internal/logger"
	"github.com/codyseavey/cardledger/backend/internal/models"
)

const defaultTimeout = 30 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "cardsearch",
		Usage: "Run one card search against the configured sources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Query string to search for; positional arg is a fallback",
			},
			&cli.BoolFlag{
				Name:  "graded",
				Usage: "Search for a graded slab",
			},
			&cli.StringFlag{
				Name:  "company",
				Usage: "Grading company for graded searches (PSA, BGS, CGC, SGC, TAG)",
			},
			&cli.StringFlag{
				Name:  "grade",
				Usage: "Grade for graded searches, e.g. 10 or 9.5",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw JSON response",
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Config environment to load",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the whole search",
				Value: defaultTimeout,
			},
		},
		Action: runAction,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cardsearch:", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	query := strings.TrimSpace(c.String("query"))
	if query == "" && c.NArg() > 0 {
		query = strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	}
	if query == "" {
		return errors.New("a query is required")
	}

	env := c.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		logger.Warn("Timeout must be positive; using default", zap.Duration("timeout", timeout))
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	defer cancel()

	service := app.New(ctx, cfg, logger)
	defer func() { _ = service.Close() }()

	resp, err := service.Aggregator.Search(ctx, models.SearchRequest{
		Query:          query,
		IsGraded:       c.Bool("graded"),
		GradingCompany: c.String("company"),
		Grade:          c.String("grade"),
	})
	if err != nil {
		return errors.Wrap(err, "search failed")
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResults(resp)
	return nil
}

func printResults(resp models.SearchResponse) {
	meta := resp.Meta
	fmt.Printf("%d results (%d priced, %d with images) in %dms", meta.Total, meta.WithPrices, meta.WithImages, meta.TimeMS)
	if meta.Cached {
		fmt.Print(" [cached]")
	}
	fmt.Println()

	for i, p := range resp.Products {
		price := "-"
		if p.MarketPrice != nil {
			price = fmt.Sprintf("$%.2f", *p.MarketPrice)
		}
		fmt.Printf("%2d. %-40s %-10s %-24s rel=%.2f\n", i+1, p.Name, price, p.Source, p.Relevance)
		if p.SetName != "" || p.CardNumber != "" {
			fmt.Printf("    %s %s\n", p.SetName, p.CardNumber)
		}
	}
}
