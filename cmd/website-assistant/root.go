package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"website-assistant/internal/app"
	"website-assistant/internal/config"
	"website-assistant/pkg/logger"
)

// buildApp is replaced in tests.
var buildApp = app.Build

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website-assistant",
		Short: "Chat assistant for company websites",
		Long: `website-assistant scrapes a company website, lets a model pick the pages
that matter (About, Company, Careers...) and answers questions about the
company from their contents. It can also list social media links, take
screenshots and write short markdown brochures.

The OpenAI key is read from OPENAI_API_KEY, a .env file or credentials.toml.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("model", "", "Override the model name")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewDetailsCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewSocialCmd())
	cmd.AddCommand(NewScreenshotCmd())
	cmd.AddCommand(NewBrochureCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags on top of the loaded config.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Log.Level = "debug"
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.Model = m
	}
	l := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return cfg, l.Logger, nil
}

func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, log)
}
