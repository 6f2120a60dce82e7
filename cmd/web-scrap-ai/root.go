package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/app"
	"github.com/AK2k30/npm-web-scrapper/internal/config"
	"github.com/AK2k30/npm-web-scrapper/internal/prompt"
)

var (
	cfg     *config.Settings
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "web-scrap-ai",
	Short: "Scrape a web page and chat with an AI about its content",
	Long: `web-scrap-ai loads a page in a headless browser, extracts either a fixed
set of elements or the CSS classes you name, saves the result as JSON and
starts a Q&A chat about it.

Inside the chat, /<term> narrows the context to the parts of the data whose
keys contain <term>, for example /title or /links.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cmd.Flags())
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if verbose {
			c.Log.Level = "debug"
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.L().Debug("settings loaded",
			zap.String("provider", cfg.Provider.Name),
			zap.String("output_dir", cfg.Output.Dir),
			zap.Duration("navigation_timeout", cfg.Scrape.NavigationTimeout),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cmd.Context()).Interactive(cmd.Context())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("provider", "", "AI provider: openai, gemini, groq, claude")
	flags.String("model", "", "Specific model override")
	flags.String("dir", "", "Directory for scraped JSON files (default: current directory)")
	flags.Int("width", 1280, "Viewport width")
	flags.Int("height", 800, "Viewport height")
	flags.String("profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
}

// newApp builds the application for one command. Prompts stop waiting once
// ctx is done so an interrupt is not swallowed by a blocked read.
func newApp(ctx context.Context) *app.App {
	return app.New(*cfg, prompt.NewContext(ctx, os.Stdin, os.Stdout))
}
