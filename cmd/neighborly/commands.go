package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ShiJbey/neighborly/internal/config"
	"github.com/ShiJbey/neighborly/internal/content"
	"github.com/ShiJbey/neighborly/internal/repositories/catalog"
	"github.com/ShiJbey/neighborly/internal/traits"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	placeTraits []string

	rootCmd = &cobra.Command{
		Use:           "neighborly",
		Short:         "Trait driven settlement simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
			slog.SetDefault(logger)
			return nil
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate [dir]",
		Short: "Load trait authoring records and report the first error",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Spawn a settlement and run the simulation",
		RunE:  runSimulation,
	}

	contentCmd = &cobra.Command{
		Use:   "content",
		Short: "Manage authoring records stored in Redis",
	}

	contentPushCmd = &cobra.Command{
		Use:   "push [dir]",
		Short: "Validate a directory of records and store it in Redis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runContentPush,
	}

	contentListCmd = &cobra.Command{
		Use:   "list",
		Short: "List records stored in Redis",
		RunE:  runContentList,
	}
)

func init() {
	rootCmd.AddCommand(validateCmd)

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&placeTraits, "place-traits", []string{"serves_alcohol", "library"},
		"Traits handed out to spawned places in turn")

	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentPushCmd)
	contentCmd.AddCommand(contentListCmd)
}

func contentDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Content.Dir
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := contentDir(args)
	loader := content.NewLoader(&content.LoaderConfig{Logger: logger})
	loaded, err := loader.LoadDir(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d traits valid in %s\n", len(loaded), dir)
	for _, t := range loader.Library().All() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %d effect(s)\n", t.ID, len(t.Effects))
	}
	return nil
}

func runContentPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := contentDir(args)

	// refuse to push anything that would not load
	staged := catalog.NewInMemoryRepository()
	if _, err := content.PushDir(ctx, staged, dir); err != nil {
		return err
	}
	loader := content.NewLoader(&content.LoaderConfig{Logger: logger})
	if _, err := loader.LoadRepository(ctx, staged); err != nil {
		return err
	}

	client, err := connectRedis(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	repo := catalog.NewRedisRepository(&catalog.RedisRepoConfig{Client: client, Namespace: cfg.Redis.Namespace})
	n, err := content.PushDir(ctx, repo, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pushed %d document(s) with %d traits\n", n, loader.Library().Len())
	return nil
}

func runContentList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := connectRedis(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	repo := catalog.NewRedisRepository(&catalog.RedisRepoConfig{Client: client, Namespace: cfg.Redis.Namespace})
	docs, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%-30s %6d bytes  %s\n", doc.Name, len(doc.Body), doc.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// loadLibrary builds the trait library from the configured source
func loadLibrary(ctx context.Context) (*traits.Library, error) {
	loader := content.NewLoader(&content.LoaderConfig{Logger: logger})

	switch cfg.Content.Source {
	case config.SourceRedis:
		client, err := connectRedis(ctx)
		if err != nil {
			return nil, err
		}
		defer client.Close()

		repo := catalog.NewRedisRepository(&catalog.RedisRepoConfig{Client: client, Namespace: cfg.Redis.Namespace})
		if _, err := loader.LoadRepository(ctx, repo); err != nil {
			return nil, err
		}
	default:
		if _, err := loader.LoadDir(cfg.Content.Dir); err != nil {
			return nil, err
		}
	}
	return loader.Library(), nil
}

func connectRedis(ctx context.Context) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to redis", "addr", opts.Addr)
	return client, nil
}
