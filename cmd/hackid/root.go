package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config   string
	token    string
	provider string
	model    string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "hackid",
	Short: "Validate hackathon submissions against their repositories",
	Long: "hackid checks a project's claimed tech stack, development window, team,\n" +
		"and core features against the evidence in its GitHub repository.\n\n" +
		"Flags override config.toml; HACKID_* environment variables override both.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "config.toml", "Config file")
	f.StringVar(&rootFlags.token, "token", "", "GitHub token")
	f.StringVar(&rootFlags.provider, "provider", "", "Oracle provider (none, openai, ollama, azure)")
	f.StringVar(&rootFlags.model, "model", "", "Oracle model")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(validateCmd, batchCmd)
	rootCmd.Version = version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
