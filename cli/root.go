// Package cli provides the alumni-chat command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"alumni-chat/config"
	"alumni-chat/kvstore"
	"alumni-chat/services"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	configFile string

	cfg        *config.Config
	logger     *slog.Logger
	logCleanup func() error
)

var rootCmd = &cobra.Command{
	Use:   "alumni-chat",
	Short: "Alumni platform messaging service",
	Long: `alumni-chat stores one-to-one conversations between alumni, lists them
per user with the other participant's profile, and pushes new messages to
connected clients over websockets.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, logCleanup = config.SetupLogger(cfg.Log)
		slog.SetDefault(logger)
		return nil
	},
}

// chatServices bundles the components shared by every command.
type chatServices struct {
	kv       kvstore.Store
	store    *services.ConversationStore
	profiles *services.KVProfileDirectory
	indexer  *services.ConversationIndexer
}

func openServices() (*chatServices, error) {
	kv, err := config.OpenKV(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	store := services.NewConversationStore(kv, logger)
	profiles := services.NewKVProfileDirectory(kv, logger)
	return &chatServices{
		kv:       kv,
		store:    store,
		profiles: profiles,
		indexer:  services.NewConversationIndexer(store, profiles, logger),
	}, nil
}

func (s *chatServices) Close() {
	if err := s.kv.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return executeContext(context.Background())
}

// executeContext runs the root command and closes the log file on every exit path.
func executeContext(ctx context.Context) error {
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCleanup == nil {
		return
	}
	if err := logCleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
	logCleanup = nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(unreadCmd)
}
