// Copyright 2025 Wayline Labs
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
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/wayline/guidepost"
	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/ingestion"
	"github.com/wayline/guidepost/reembed"
	"github.com/wayline/guidepost/server"
)

func main() {
	// Missing .env is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "guidepost",
		Usage: "Retrieval-augmented travel guide over a geo-tagged place corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":3001",
						EnvVars: []string{"GUIDEPOST_ADDR"},
					},
					dbFlag(),
					placesFlag(),
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a places file into the store",
				Action: ingestCommand,
				Flags: append(aiFlags(),
					dbFlag(),
					placesFlag(),
				),
			},
			{
				Name:      "search",
				Usage:     "Ask a question against the stored corpus",
				ArgsUsage: "<question>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					dbFlag(),
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Origin latitude (requires --lng)",
					},
					&cli.Float64Flag{
						Name:  "lng",
						Usage: "Origin longitude (requires --lat)",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored places with a new embedding model",
				Action: reembedCommand,
				Flags: append(aiFlags(),
					dbFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of places to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N places",
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

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory",
		Value:   "guidepost-db",
		EnvVars: []string{"GUIDEPOST_DB"},
	}
}

func placesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "places",
		Usage:   "Path to the JSON places batch source",
		Value:   "data/places.json",
		EnvVars: []string{"GUIDEPOST_PLACES"},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "https://api.openai.com/v1",
			EnvVars: []string{"GUIDEPOST_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "text-embedding-3-small",
			EnvVars: []string{"GUIDEPOST_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "answer-model",
			Usage:   "Answer generation model name",
			Value:   "gpt-4o",
			EnvVars: []string{"GUIDEPOST_ANSWER_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API token for the AI service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func buildAIConfig(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnswerModel(c.String("answer-model")),
		ai.WithAPIToken(c.String("api-token")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openGuide(c *cli.Context) (*guidepost.Guide, error) {
	aiConfig, err := buildAIConfig(c)
	if err != nil {
		return nil, err
	}
	guide, err := guidepost.Open(c.String("db"), guidepost.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return guide, nil
}

func serveCommand(c *cli.Context) error {
	guide, err := openGuide(c)
	if err != nil {
		return err
	}
	defer guide.Close()

	pipeline, err := guide.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	retriever, err := guide.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	srv := server.NewServer(pipeline, retriever, c.String("places"))
	return srv.Run(c.String("addr"))
}

func ingestCommand(c *cli.Context) error {
	guide, err := openGuide(c)
	if err != nil {
		return err
	}
	defer guide.Close()

	raws, err := ingestion.LoadPlacesFile(c.String("places"))
	if err != nil {
		return err
	}

	pipeline, err := guide.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	report, err := pipeline.Ingest(context.Background(), raws)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d, skipped %d\n", len(report.Ingested), len(report.Skipped))
	for _, name := range report.Ingested {
		fmt.Printf("  + %s\n", name)
	}
	for _, name := range report.Skipped {
		fmt.Printf("  = %s (already present)\n", name)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: guidepost search <question>")
	}

	guide, err := openGuide(c)
	if err != nil {
		return err
	}
	defer guide.Close()

	retriever, err := guide.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	query := core.Query{Text: question}
	if c.IsSet("lat") && c.IsSet("lng") {
		query.Origin = &core.Location{Lat: c.Float64("lat"), Lng: c.Float64("lng")}
	} else if c.IsSet("lat") || c.IsSet("lng") {
		return fmt.Errorf("--lat and --lng must be given together")
	}

	result, err := retriever.Retrieve(context.Background(), query)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range result.Sources {
			fmt.Printf("  - %s (%.4f, %.4f)\n", src.Name, src.Location.Lat, src.Location.Lng)
		}
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	guide, err := openGuide(c)
	if err != nil {
		return err
	}
	defer guide.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := guide.NewReembedder(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
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
