// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rmv CLI, the command-line surface
// over the motif resolution layer. Structure loading and visualization live
// in external tooling; rmv resolves, inspects, and caches annotations.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/internal/cache"
	"github.com/reymondkenney20/rmv-2/internal/provider"
	"github.com/reymondkenney20/rmv-2/internal/resolver"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built once in the root PersistentPreRunE.
var logger *zap.Logger

// rootCmd is the base command for the rmv CLI.
var rootCmd = &cobra.Command{
	Use:   "rmv",
	Short: "Resolve RNA structural-motif annotations from multiple sources",
	Long: `rmv resolves motif annotations (hairpin loops, internal loops, junctions,
named Rfam motifs) for a PDB structure from bundled datasets, remote APIs,
and user-supplied annotation-tool output, normalized into one schema.

Remote responses are cached on disk for 30 days. Source selection modes:
auto (local first, first hit wins), local, web, all (union with
attribution), and user (a selected annotation tool only).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
			logger, err = cfg.Build()
		}
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rmv.yaml or ~/.config/rmv/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rmv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rmv"))
		}
	}

	viper.SetEnvPrefix("RMV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolverConfig assembles the layer configuration from viper with defaults.
func resolverConfig() types.ResolverConfig {
	viper.SetDefault("atlas_db", filepath.Join("data", "atlas", "motifs.db"))
	viper.SetDefault("rfam_dir", filepath.Join("data", "rfam"))
	viper.SetDefault("annotations_dir", "annotations")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("user_agent", "rmv/"+version)
	viper.SetDefault("mode", string(resolver.ModeAuto))

	cacheDir := viper.GetString("cache_dir")
	if cacheDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cacheDir = filepath.Join(home, ".rmv-cache")
		} else {
			cacheDir = ".rmv-cache"
		}
	}

	return types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		AtlasDB:        viper.GetString("atlas_db"),
		RfamDir:        viper.GetString("rfam_dir"),
		AnnotationsDir: viper.GetString("annotations_dir"),
		CacheDir:       cacheDir,
		Mode:           viper.GetString("mode"),
	}
}

// buildCache opens the on-disk cache from the layer configuration.
func buildCache(cfg types.ResolverConfig) (*cache.Manager, error) {
	return cache.NewManager(cfg.CacheDir, cache.WithLogger(logger))
}

// buildResolver wires providers in priority order (local before remote)
// and returns the resolver plus a cleanup func. Bundled datasets that fail
// to load are skipped with a warning; remote providers are always wired.
func buildResolver(cfg types.ResolverConfig) (*resolver.Resolver, func(), error) {
	cacheMgr, err := buildCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	var providers []provider.Provider
	cleanup := func() {}

	atlas, err := provider.NewAtlas(cfg.AtlasDB)
	if err != nil {
		logger.Warn("atlas dataset unavailable", zap.String("path", cfg.AtlasDB), zap.Error(err))
	} else {
		providers = append(providers, atlas)
		cleanup = func() { atlas.Close() }
	}

	rfam, err := provider.NewRfam(cfg.RfamDir, logger)
	if err != nil {
		logger.Warn("rfam dataset unavailable", zap.String("path", cfg.RfamDir), zap.Error(err))
	} else {
		providers = append(providers, rfam)
	}

	providers = append(providers,
		provider.NewBGSU(cfg.HTTPConfig, logger),
		provider.NewRfamAPI(cfg.HTTPConfig, logger),
	)

	r := resolver.New(providers, cacheMgr, cfg.AnnotationsDir,
		resolver.WithLogger(logger),
		resolver.WithCallTimeout(cfg.Timeout),
	)

	if cfg.Mode != "" && cfg.Mode != string(resolver.ModeAuto) {
		if err := r.SetMode(cfg.Mode, ""); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("configured mode: %w", err)
		}
	}
	return r, cleanup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
