package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"website-assistant/internal/report"
	"website-assistant/internal/tools"
)

func NewDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <url>",
		Short: "Print the landing page and the relevant pages of a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := tools.NormalizeURL(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			details, err := a.Details.Details(cmd.Context(), url)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), details)
			return nil
		},
	}
}

func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <url>",
		Short: "Show the links the model considers relevant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := tools.NormalizeURL(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sel, err := a.Details.Links(cmd.Context(), url)
			if err != nil {
				return err
			}
			if md, _ := cmd.Flags().GetBool("markdown"); md {
				return report.Selection(cmd.OutOrStdout(), url, sel)
			}
			return writeIndented(cmd, sel)
		},
	}
	cmd.Flags().Bool("markdown", false, "Print a Markdown table instead of JSON")
	return cmd
}

func NewSocialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social <url>",
		Short: "List the social media links of a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := tools.NormalizeURL(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			links, err := a.Social.FromURL(cmd.Context(), url)
			if err != nil {
				return err
			}
			if md, _ := cmd.Flags().GetBool("markdown"); md {
				return report.SocialLinks(cmd.OutOrStdout(), url, links)
			}
			return writeIndented(cmd, links)
		},
	}
	cmd.Flags().Bool("markdown", false, "Print a Markdown table instead of JSON")
	return cmd
}

func NewScreenshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot <url>",
		Short: "Save a PNG screenshot of a website using headless Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := tools.NormalizeURL(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				out = filepath.Join(a.Config.Screenshot.Dir, tools.FileName(url, time.Now()))
			}
			if err := a.Screenshots.Capture(cmd.Context(), url, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output PNG path (default: <screenshot dir>/<host>-<time>.png)")
	return cmd
}

func writeIndented(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
