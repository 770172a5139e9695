package pgrst

import (
	"fmt"
	"os"

	"github.com/edgeflare/pgrst/pkg/config"
	"github.com/edgeflare/pgrst/pkg/httputil"
	"github.com/edgeflare/pgrst/pkg/postgrest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string
var logLevel string
var cfg *config.Config
var rootCmd = &cobra.Command{
	Use:   "pgrst",
	Short: "pgrst queries PostgREST APIs",
	Long:  `pgrst builds and executes queries against a PostgREST-compatible endpoint`,
	Run: func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Println(config.Version)
			return
		}

		// If no subcommand is provided, print help
		cmd.Help()
	},
}

func Main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pgrst.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "info", "log requests at this level (debug, info, warn, error, none)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Print the version number")

	// flag names match config keys so they bind through viper in config.Load
	rootCmd.PersistentFlags().StringP("baseURL", "u", "", "PostgREST base URL")
	rootCmd.PersistentFlags().String("schema", "", "PostgreSQL schema to query")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the Authorization header")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile, boundFlags())
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
}

// boundFlags returns the persistent flags the user actually set, so unset
// flags don't shadow config-file or environment values with zero defaults.
func boundFlags() *pflag.FlagSet {
	set := pflag.NewFlagSet("pgrst", pflag.ContinueOnError)
	for _, name := range []string{"baseURL", "schema", "token", "timeout"} {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil && f.Changed {
			set.AddFlag(f)
		}
	}
	return set
}

func newLogger() *zap.Logger {
	if logLevel == "none" {
		return zap.NewNop()
	}
	lvl, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newClient builds a postgrest.Client from the loaded configuration.
func newClient() (*postgrest.Client, error) {
	opts := []postgrest.Option{
		postgrest.WithSchema(cfg.Schema),
		postgrest.WithTimeout(cfg.Timeout),
		postgrest.WithLogger(newLogger()),
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, postgrest.WithHeaders(cfg.Headers))
	}
	if cfg.Retry.Enabled {
		opts = append(opts, postgrest.WithTransport(httputil.NewRetryTransport(
			httputil.NewTransport(cfg.Timeout),
			httputil.RetryConfig{
				MaxRetries:     cfg.Retry.MaxRetries,
				InitialBackoff: cfg.Retry.InitialBackoff,
				MaxBackoff:     cfg.Retry.MaxBackoff,
			},
		)))
	}

	client, err := postgrest.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Token != "" {
		client.SetAuth(cfg.Token)
	}
	return client, nil
}
