package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	formation "github.com/goliatone/go-formation"
	"github.com/goliatone/go-formation/pkg/entry"
	"github.com/goliatone/go-formation/pkg/formstore"
	"github.com/goliatone/go-formation/pkg/prompt"
)

type config struct {
	FormsDir string        `mapstructure:"forms_dir"`
	Database string        `mapstructure:"database"`
	LogLevel string        `mapstructure:"log_level"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config
	logger  zerolog.Logger
	stderr  io.Writer
	// driver overrides the survey prompt driver used by fill.
	driver prompt.Driver
}

func newApp() *app {
	return &app{v: viper.New(), stderr: os.Stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formation",
		Short:         "Render and process block-declared forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./formation.yaml)")
	flags.String("forms-dir", "forms", "directory holding form documents")
	flags.String("database", "", "SQLite database for entries (in-memory when empty)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Duration("cache-ttl", formstore.DefaultCacheTTL, "how long parsed forms stay cached")

	_ = a.v.BindPFlag("forms_dir", flags.Lookup("forms-dir"))
	_ = a.v.BindPFlag("database", flags.Lookup("database"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("cache_ttl", flags.Lookup("cache-ttl"))

	root.AddCommand(
		a.typesCmd(),
		a.renderCmd(),
		a.submitCmd(),
		a.fillCmd(),
		a.entriesCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	a.v.SetEnvPrefix("FORMATION")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("formation")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || a.cfgFile != "" {
			return fmt.Errorf("formation: read config: %w", err)
		}
	}
	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("formation: decode config: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(a.cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr}).Level(level).With().Timestamp().Logger()
	return nil
}

func (a *app) forms() *formstore.FS {
	return formstore.NewFS(os.DirFS(a.cfg.FormsDir),
		formstore.WithCacheTTL(a.cfg.CacheTTL),
		formstore.WithLogger(a.logger),
	)
}

// store opens the configured entry store. The returned close func is never
// nil.
func (a *app) store(ctx context.Context) (entry.Store, func() error, error) {
	if strings.TrimSpace(a.cfg.Database) == "" {
		return entry.NewMemoryStore(), func() error { return nil }, nil
	}
	store, err := entry.OpenSQLite(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func (a *app) engine(store entry.Store) *formation.Engine {
	return formation.New(
		formation.WithForms(a.forms()),
		formation.WithStore(store),
		formation.WithLogger(a.logger),
	)
}
