package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/commerceintel/admin-service/config"
	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/database"
	"github.com/commerceintel/admin-service/internal/docstore"
	"github.com/commerceintel/admin-service/internal/http/ratelimit"
	"github.com/commerceintel/admin-service/internal/store"
)

var (
	cfgFile  string
	output   string
	cfg      *config.Config
	cfgErr   error
	logger   *zerolog.Logger
	appStore store.Store
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "admin-cli",
	Short: "Commerce admin CLI - waste and index pricing tools",
	Long: `A CLI for the commerce admin pricing engines. The normalize, kvi and offline quote
commands run the engines locally; waste and index data commands use the configured store
and catalog API the same way the admin service does.`,
	PersistentPreRunE:  persistentPreRun,
	PersistentPostRunE: persistentPostRun,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "table", "Output format: table or json")
}

func initConfig() {
	cfg, cfgErr = config.Load(cfgFile)
}

// needsStore marks commands that read or write persisted data
const (
	needsStore    = "needs-store"
	unlessOffline = "unless-offline"
	whenSegment   = "when-segment"
)

func commandNeedsStore(cmd *cobra.Command) bool {
	switch cmd.Annotations[needsStore] {
	case "":
		return false
	case unlessOffline:
		offline, _ := cmd.Flags().GetBool("offline")
		return !offline
	case whenSegment:
		segment, _ := cmd.Flags().GetString("segment")
		return segment != ""
	default:
		return true
	}
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	if !commandNeedsStore(cmd) {
		return nil
	}
	if cfgErr != nil {
		return fmt.Errorf("config required for %s command: %w", cmd.Name(), cfgErr)
	}

	st, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	appStore = st
	logger.Debug().Str("driver", cfg.Database.Driver).Msg("Store connected")
	return nil
}

func persistentPostRun(cmd *cobra.Command, args []string) error {
	if appStore == nil {
		return nil
	}
	err := appStore.Close(cmd.Context())
	if cfg.Database.Driver == config.DriverPostgres {
		database.Close()
	}
	return err
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// stdout carries command output
	noColor := cfg != nil && cfg.Logging.NoColor
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}

	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &log
}

func openStore(ctx context.Context) (store.Store, error) {
	db := cfg.Database
	switch db.Driver {
	case config.DriverMongo:
		return docstore.Connect(ctx, db.MongoURI, db.MongoDatabase, docstore.Options{
			MaxPoolSize:    uint64(db.MaxConnections),
			MinPoolSize:    uint64(db.MinConnections),
			ConnectTimeout: db.ConnectTimeout,
		})
	case config.DriverPostgres:
		if err := database.Connect(ctx, database.PoolConfig{
			URL:                db.URL,
			MaxConns:           db.MaxConnections,
			MinConns:           db.MinConnections,
			MaxConnLifetime:    db.MaxConnLifetime,
			MaxConnIdleTime:    db.MaxConnIdleTime,
			SlowQueryThreshold: db.SlowQueryThreshold,
		}); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, err
		}
		return database.NewStore(database.Pool()), nil
	case config.DriverMemory:
		logger.Warn().Msg("memory driver selected; nothing is persisted after the command exits")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", db.Driver)
	}
}

func newCatalogClient() *catalog.Client {
	cache, err := catalog.NewCache(catalog.CacheConfig{
		Enabled:  cfg.Cache.Enabled,
		RedisURL: cfg.Cache.RedisURL,
		TTL:      cfg.Cache.TTL,
		Breaker: catalog.BreakerConfig{
			MaxFailures:  cfg.Cache.BreakerMaxFailures,
			ResetTimeout: cfg.Cache.BreakerResetTimeout,
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Catalog cache unavailable")
		cache = catalog.NewNoopCache()
	}
	return catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Burst:             cfg.Catalog.Burst,
			MaxRetries:        cfg.Catalog.MaxRetries,
			InitialBackoff:    cfg.Catalog.InitialBackoff,
			MaxBackoff:        cfg.Catalog.MaxBackoff,
		},
		BatchSize:   cfg.Catalog.BatchSize,
		Concurrency: cfg.Catalog.Concurrency,
	}, cache)
}

// printJSON writes v as indented JSON to w
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
