// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	enterprisesearch "github.com/betloreilly/AI-powered-Enterprise-Search"
	"github.com/betloreilly/AI-powered-Enterprise-Search/chunking"
	"github.com/betloreilly/AI-powered-Enterprise-Search/config"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	blevex "github.com/betloreilly/AI-powered-Enterprise-Search/index/bleve"
	"github.com/betloreilly/AI-powered-Enterprise-Search/keywords"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage/badger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lexora-ingest",
		Usage: "Ingest support knowledge into a hybrid keyword and vector search index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML settings file",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Read environment variables from `FILE` (default .env when present)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Chunk, embed and index support documents",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "document",
						Aliases: []string{"d"},
						Usage:   "Document to ingest, repeatable (default SUPPORT_DOCUMENT_PATH)",
					},
					&cli.StringSliceFlag{
						Name:    "elements",
						Aliases: []string{"e"},
						Usage:   "Saved chunking service elements JSON to ingest instead of calling the API, repeatable",
					},
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Number of documents ingested at once",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Index backend (opensearch, bleve)",
					},
				},
			},
			{
				Name:   "ingest-products",
				Usage:  "Merge, embed and index product catalogs",
				Action: ingestProductsCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Product catalog JSON to merge, repeatable (default products.files)",
					},
					&cli.StringFlag{
						Name:  "merged-out",
						Usage: "Write the normalized catalog to `FILE`",
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Index backend (opensearch, bleve)",
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Check that the configured index exists",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Index backend (opensearch, bleve)",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recent ingestion runs",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 10,
					},
				},
			},
			{
				Name:      "keywords",
				Usage:     "Print the keywords extracted from text",
				ArgsUsage: "[text...] (reads stdin when empty)",
				Action:    keywordsCommand,
			},
			{
				Name:      "search",
				Usage:     "Keyword search over the local index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of hits",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "products",
						Usage: "Search the product index instead of the support index",
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadSettings reads settings from the --config file and the environment.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	env, err := loadEnv(c.StringSlice("env-file"))
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(c.String("config"), env)
	if err != nil {
		return nil, err
	}

	if backend := c.String("backend"); backend != "" {
		settings.Backend = strings.ToLower(backend)
	}
	return settings, nil
}

func loadEnv(files []string) (config.Env, error) {
	if len(files) > 0 {
		return config.DotEnv(files...)
	}
	if _, err := os.Stat(".env"); err == nil {
		return config.DotEnv(".env")
	}
	return config.OSEnv(), nil
}

func ingestCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	opts := []enterprisesearch.Option{
		enterprisesearch.WithLogger(slog.Default()),
		enterprisesearch.WithPoolSize(c.Int("parallel")),
		enterprisesearch.WithProgress(c.App.ErrWriter),
	}

	paths := c.StringSlice("elements")
	if len(paths) > 0 {
		opts = append(opts, enterprisesearch.WithSource(chunking.NewFileSource()))
	} else {
		paths = c.StringSlice("document")
		if len(paths) == 0 {
			paths = []string{settings.Ingestion.DocumentPath}
		}
	}

	svc, err := enterprisesearch.NewService(settings, opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Verify(c.Context); err != nil {
		return err
	}

	summaries, err := svc.IngestFiles(c.Context, paths)
	for _, summary := range summaries {
		if summary != nil {
			printSummary(c.App.Writer, summary)
		}
	}
	return err
}

func ingestProductsCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	if out := c.String("merged-out"); out != "" {
		settings.Products.MergedOutput = out
	}

	// Catalogs need no chunking, so the chunking credential stays optional.
	svc, err := enterprisesearch.NewService(settings,
		enterprisesearch.WithLogger(slog.Default()),
		enterprisesearch.WithSource(chunking.NewFileSource()),
		enterprisesearch.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	summary, err := svc.IngestProducts(c.Context, c.StringSlice("file"))
	if summary != nil {
		printSummary(c.App.Writer, summary)
	}
	return err
}

func verifyCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	// A file source keeps the chunking credential optional here.
	svc, err := enterprisesearch.NewService(settings,
		enterprisesearch.WithLogger(slog.Default()),
		enterprisesearch.WithSource(chunking.NewFileSource()),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Verify(c.Context); err != nil {
		return err
	}

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(c.App.Writer, "%s index %s is ready\n", green("OK"), svc.IndexName())
	return nil
}

func runsCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(settings.StatePath(), false, slog.Default())
	if err != nil {
		return err
	}
	defer backend.Close()

	runs, err := badger.NewRunRepository(backend).ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(c.App.Writer, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		printSummary(c.App.Writer, run)
	}
	return nil
}

func keywordsCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		data, err := io.ReadAll(bufio.NewReader(c.App.Reader))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	for _, kw := range keywords.Extract(text) {
		fmt.Fprintln(c.App.Writer, kw)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return errors.New("search query is required")
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	var idx *blevex.Indexer
	if c.Bool("products") {
		idx, err = blevex.NewProductIndexer(settings.LocalProductIndexPath(), settings.OpenSearch.ProductIndex, slog.Default())
	} else {
		idx, err = blevex.NewIndexer(settings.LocalIndexPath(), settings.OpenSearch.Index, slog.Default())
	}
	if err != nil {
		return err
	}
	defer idx.Close()

	hits, err := idx.Search(c.Context, query, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Fprintln(c.App.Writer, "No results.")
		return nil
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	for i, hit := range hits {
		fmt.Fprintf(c.App.Writer, "%d. %s (%.3f) %s\n", i+1, cyan(hit.ID), hit.Score, hit.Title)
		fmt.Fprintf(c.App.Writer, "   %s\n", snippet(hit.Content, 160))
	}
	return nil
}

func printSummary(w io.Writer, s *core.RunSummary) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s -> %s (%s, %s)\n", bold("Run"), s.Source, s.Index, s.RunID,
		s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  elements: %d  filtered out: %d  embedding failures: %d\n",
		s.InputCount, s.FilteredOut, s.EmbeddingFailures)

	rejected := fmt.Sprint(s.Rejected)
	if s.Rejected > 0 {
		rejected = yellow(rejected)
	}
	fmt.Fprintf(w, "  accepted: %s  rejected: %s  duration: %s\n",
		green(s.Accepted), rejected, s.Duration().Round(time.Millisecond))

	for _, rej := range s.Rejections {
		fmt.Fprintf(w, "    %s %s: %s\n", yellow("rejected"), rej.ID, rej.Reason)
	}
	if s.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", red("error:"), s.Error)
	}
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
