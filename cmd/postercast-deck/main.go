package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/postercast/postercast/internal/screensync"
)

var (
	serverURL string
	room      string
	verbose   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "postercast-deck",
	Short: "Operator CLI for the postercast relay",
	Long: `postercast-deck drives a poster session from the command line.

scan merges a poster directory with an optional spreadsheet and prints the
canonical abstract list; present and clear push state into a relay room;
watch follows a room the way a presentation screen would.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newRelayClient() *screensync.HTTPClient {
	return screensync.NewHTTPClient(serverURL, &http.Client{Timeout: 15 * time.Second})
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "relay server base URL")
	rootCmd.PersistentFlags().StringVar(&room, "room", "default", "room key")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(presentCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
