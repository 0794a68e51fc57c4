package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"website-assistant/internal/ioformats"
	"website-assistant/internal/report"
	"website-assistant/internal/tools"
)

func NewBrochureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brochure [url]",
		Short: "Write a short markdown brochure for one or many companies",
		Long: `Write a brochure for the company at <url>, or for every row of --input
(a CSV file with "url" and optional "company" columns, or NDJSON).
Batch results are written as NDJSON, one line per input row, in input order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBrochure,
	}
	cmd.Flags().String("company", "", "Company name (defaults to the URL)")
	cmd.Flags().StringP("input", "i", "", "CSV or NDJSON file of targets")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cmd.Flags().Int("concurrency", 0, "Brochures generated in parallel (default fetch.concurrency)")
	return cmd
}

func runBrochure(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" && len(args) == 0 {
		return errors.New("provide a url or --input")
	}
	if input != "" && len(args) > 0 {
		return errors.New("a url and --input cannot be used together")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path) //nolint:gosec // user supplied path
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if input == "" {
		url, err := tools.NormalizeURL(args[0])
		if err != nil {
			return err
		}
		company, _ := cmd.Flags().GetString("company")
		b, err := a.Brochures.Create(cmd.Context(), company, url)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, b.Markdown)
		return err
	}

	targets, err := ioformats.ReadTargets(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = a.Config.Fetch.Concurrency
	}
	a.Log.Info("generating brochures", "targets", len(targets), "concurrency", concurrency)

	results := ioformats.RunBrochures(cmd.Context(), a.Brochures, targets, concurrency, a.Log)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		return err
	}
	a.Log.Info("done", "ok", len(results)-failed, "failed", failed)
	return nil
}

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived brochures as a Markdown table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.Archive == nil {
				return errors.New("brochure archive is disabled")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			list, err := a.Archive.ListBrochures(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return report.Brochures(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of brochures (0 for all)")
	return cmd
}
