// Copyright 2025 Archivista Contributors
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/archivista/archivista"
	"github.com/archivista/archivista/ai"
	"github.com/archivista/archivista/config"
	"github.com/archivista/archivista/core"
	"github.com/archivista/archivista/ingestion"
	"github.com/archivista/archivista/reembed"
	"github.com/archivista/archivista/search"
)

func main() {
	app := &cli.App{
		Name:  "archivista",
		Usage: "Newspaper archive ingestion and semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults to ./archivista.yaml, then ~/.config/archivista/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import OCR page text files as a newspaper issue",
				ArgsUsage: "page1.txt [page2.txt ...]",
				Action:    importCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "paper",
						Usage:    "Newspaper title (created if it does not exist)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "date",
						Usage:    "Issue date in YYYY-MM-DD form",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "city",
						Usage: "City of publication",
					},
					&cli.StringFlag{
						Name:  "ocr-provider",
						Usage: "Name of the OCR provider recorded on each page",
						Value: "import",
					},
					&cli.Float64Flag{
						Name:  "ocr-confidence",
						Usage: "OCR confidence recorded on each page",
						Value: 1.0,
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Segment, embed and index an issue's pages",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.Uint64Flag{
						Name:     "issue",
						Usage:    "Issue ID to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Idempotency key (a random one is generated if omitted)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent page workers",
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Show ingestion job status",
				Action: statusCommand,
				Flags: append(commonFlags(),
					&cli.Uint64Flag{
						Name:  "job",
						Usage: "Job ID to inspect",
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Idempotency key to inspect",
					},
					&cli.IntFlag{
						Name:  "recent",
						Usage: "Number of recent jobs to list when no job is given",
						Value: 10,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the archive and print matching pages",
				ArgsUsage: "query...",
				Action:    searchCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "top",
						Usage: "Maximum number of pages to return",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for a segment match",
					},
				),
			},
			{
				Name:   "rebuild",
				Usage:  "Drop the retrieval index and rebuild it from canonical pages",
				Action: rebuildCommand,
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "reingest",
						Usage: "Re-ingest every issue after dropping the index",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute embeddings for every indexed segment",
				Action: reembedCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of segments to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N segments",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags are shared by every command that opens the archive.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the archive database directory (overrides config)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (overrides config)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (overrides config)",
		},
	}
}

func setup(c *cli.Context) error {
	// Pick up provider tokens and the like from a local .env, if present
	_ = godotenv.Load()
	return setupLogger(c)
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// openArchive opens the archive named by flags or config, wiring the
// embedding provider from the merged settings.
func openArchive(c *cli.Context, cfg *config.AppConfig) (*archivista.Archive, error) {
	dbPath := cfg.Archive.Path
	if c.String("db") != "" {
		dbPath = c.String("db")
	}

	host := cfg.Embedding.Host
	if c.String("embedding-host") != "" {
		host = c.String("embedding-host")
	}
	model := cfg.Embedding.Model
	if c.String("embedding-model") != "" {
		model = c.String("embedding-model")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(host),
		ai.WithEmbeddingModel(model),
		ai.WithAPIToken(cfg.Embedding.APIToken()),
		ai.WithBatchSize(cfg.Embedding.BatchSize),
		ai.WithRequestsPerSecond(cfg.Embedding.RequestsPerSecond),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return archivista.OpenArchive(dbPath, archivista.WithAIConfig(aiConfig))
}

func importCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one page text file is required")
	}

	date, err := time.Parse("2006-01-02", c.String("date"))
	if err != nil {
		return fmt.Errorf("invalid issue date: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()
	repo := archive.ArchiveRepository()

	paper, err := findOrCreateNewspaper(ctx, archive, c.String("paper"), c.String("city"))
	if err != nil {
		return err
	}

	issue, err := repo.GetOrCreateIssue(ctx, &core.Issue{
		NewspaperId: paper.Id,
		Date:        date,
	})
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	for i, path := range c.Args().Slice() {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read page file %s: %w", path, err)
		}

		page, err := repo.GetOrCreatePage(ctx, &core.Page{
			IssueId:   issue.Id,
			Number:    i + 1,
			ImagePath: filepath.Clean(path),
		})
		if err != nil {
			return fmt.Errorf("failed to create page %d: %w", i+1, err)
		}

		_, err = repo.UpdatePageOCR(ctx, page.Id, string(text),
			c.Float64("ocr-confidence"), c.String("ocr-provider"), time.Now())
		if err != nil {
			return fmt.Errorf("failed to store OCR text for page %d: %w", i+1, err)
		}
	}

	fmt.Printf("Imported %d pages into issue %d (%s, %s)\n",
		c.NArg(), issue.Id, paper.Name, date.Format("2006-01-02"))
	fmt.Printf("Run: archivista ingest --issue %d\n", issue.Id)
	return nil
}

// findOrCreateNewspaper looks a title up by exact name before creating it,
// so repeated imports reuse the same newspaper record.
func findOrCreateNewspaper(ctx context.Context, archive *archivista.Archive, name, city string) (*core.Newspaper, error) {
	papers, err := archive.ArchiveRepository().ListNewspapers(ctx)
	if err != nil {
		return nil, err
	}
	for _, paper := range papers {
		if paper.Name == name {
			return paper, nil
		}
	}
	return archive.ArchiveRepository().CreateNewspaper(ctx, &core.Newspaper{
		Name: name,
		City: city,
	})
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	orchestrator, err := newOrchestrator(c, cfg, archive)
	if err != nil {
		return err
	}
	defer orchestrator.Release()

	key := c.String("key")
	if key == "" {
		key = uuid.NewString()
	}

	ctx := context.Background()
	job, err := orchestrator.Submit(ctx, key, core.ID(c.Uint64("issue")))
	if err != nil {
		return fmt.Errorf("failed to submit job: %w", err)
	}

	job, err = orchestrator.Run(ctx, job.Id)
	if err != nil {
		return fmt.Errorf("ingestion run failed: %w", err)
	}

	printJob(job)
	return nil
}

func newOrchestrator(c *cli.Context, cfg *config.AppConfig, archive *archivista.Archive) (*ingestion.Orchestrator, error) {
	retryDelay, err := time.ParseDuration(cfg.Ingestion.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("invalid retry_delay in config: %w", err)
	}

	opts := []ingestion.Option{
		ingestion.WithRetryPolicy(cfg.Ingestion.MaxAttempts, retryDelay),
	}
	poolSize := cfg.Ingestion.PoolSize
	if c.Int("pool-size") > 0 {
		poolSize = c.Int("pool-size")
	}
	if poolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(poolSize))
	}

	return archive.NewOrchestrator(opts...)
}

func statusCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()

	switch {
	case c.Uint64("job") != 0:
		job, err := archive.JobRepository().GetJob(ctx, core.ID(c.Uint64("job")))
		if err != nil {
			return err
		}
		printJob(job)
	case c.String("key") != "":
		job, err := archive.JobRepository().GetJobByKey(ctx, c.String("key"))
		if err != nil {
			return err
		}
		printJob(job)
	default:
		jobs, err := archive.JobRepository().ListRecentJobs(ctx, c.Int("recent"))
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No ingestion jobs recorded")
			return nil
		}
		for _, job := range jobs {
			fmt.Printf("%-8d %-12s %-36s pages %d/%d (%d failed)\n",
				job.Id, job.Status, job.IdempotencyKey,
				job.Progress.PagesProcessed, job.Progress.PagesTotal,
				job.Progress.PagesFailed)
		}
	}
	return nil
}

func printJob(job *core.IngestJob) {
	fmt.Printf("Job %d (%s)\n", job.Id, job.IdempotencyKey)
	fmt.Printf("  Status:  %s", job.Status)
	if job.ErrorMessage != "" {
		fmt.Printf(" (%s)", job.ErrorMessage)
	}
	fmt.Println()
	fmt.Printf("  Issue:   %d\n", job.IssueId)
	fmt.Printf("  Pages:   %d/%d processed, %d succeeded, %d failed\n",
		job.Progress.PagesProcessed, job.Progress.PagesTotal,
		job.Progress.PagesSucceeded, job.Progress.PagesFailed)
	for _, pageErr := range job.Progress.Errors {
		fmt.Printf("  Error:   page %d: %s\n", pageErr.PageNumber, pageErr.Message)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	minSimilarity := cfg.Search.MinSimilarity
	if c.IsSet("min-similarity") {
		minSimilarity = c.Float64("min-similarity")
	}
	engine, err := archive.NewSearchEngine(search.WithMinSimilarity(float32(minSimilarity)))
	if err != nil {
		return err
	}

	top := cfg.Search.MaxHits
	if c.Int("top") > 0 {
		top = c.Int("top")
	}

	hits, err := engine.Search(context.Background(), query, top)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matching pages")
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%d. %s, %s, page %d (score %.3f)\n",
			i+1, hit.NewspaperName, hit.IssueDate.Format("2006-01-02"),
			hit.PageNumber, hit.Score)
		fmt.Printf("   %s\n", hit.Snippet)
	}
	return nil
}

func rebuildCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()
	pagesReset, err := archive.RebuildIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop index: %w", err)
	}
	fmt.Printf("Index dropped, %d pages reset to awaiting indexing\n", pagesReset)

	if !c.Bool("reingest") {
		fmt.Println("Run: archivista ingest --issue <id> for each issue to rebuild")
		return nil
	}

	orchestrator, err := newOrchestrator(c, cfg, archive)
	if err != nil {
		return err
	}
	defer orchestrator.Release()

	papers, err := archive.ArchiveRepository().ListNewspapers(ctx)
	if err != nil {
		return err
	}
	for _, paper := range papers {
		issues, err := archive.ArchiveRepository().ListIssuesByNewspaper(ctx, paper.Id, 0, 0)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			key := fmt.Sprintf("rebuild-%d-%s", issue.Id, uuid.NewString())
			job, err := orchestrator.Submit(ctx, key, issue.Id)
			if err != nil {
				return fmt.Errorf("failed to submit issue %d: %w", issue.Id, err)
			}
			job, err = orchestrator.Run(ctx, job.Id)
			if err != nil {
				return fmt.Errorf("failed to ingest issue %d: %w", issue.Id, err)
			}
			fmt.Printf("Issue %d (%s %s): %s, %d pages indexed\n",
				issue.Id, paper.Name, issue.Date.Format("2006-01-02"),
				job.Status, job.Progress.PagesSucceeded)
		}
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	archive, err := openArchive(c, cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := archive.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
