package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jsphweid/leadsheet/config"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "leadsheet",
	Short: "Parses, transposes and formats leadsheets",
	Long: `leadsheet reads chord charts written as plain text: bars of chord
symbols between barlines, optional section labels and metadata lines.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file for serve and follow")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadConfig() (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", configPath, "addr", c.Server.Addr, "store", c.Store.Path)
	return c, nil
}

// readInput reads the file named by the first arg, or stdin when there is
// none or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read leadsheet: %w", err)
	}
	return string(data), nil
}
