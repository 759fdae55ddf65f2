package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/export"
)

func newResultsCmd(open opener) *cobra.Command {
	var limit int
	var candidate string
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored evaluations with aggregate statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd.Context(), open, func(ctx context.Context, d *deps) error {
				return printResults(ctx, cmd.OutOrStdout(), d, candidate, limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows to print")
	cmd.Flags().StringVar(&candidate, "candidate", "", "Only show evaluations for this candidate")
	return cmd
}

func printResults(ctx context.Context, w io.Writer, d *deps, candidate string, limit int) error {
	var rows []export.Row
	if candidate != "" {
		evals, err := d.Results.ByCandidate(ctx, candidate)
		if err != nil {
			return err
		}
		rows = export.Rows(evals)
	} else {
		dash, err := d.Results.Dashboard(ctx, limit, 0)
		if err != nil {
			return err
		}
		rows = export.Rows(dash.Evaluations)
		s := dash.Stats
		fmt.Fprintf(w, "total %d  qualified %d  not qualified %d  overqualified %d  average %.1f  range %d-%d\n\n",
			s.Total, s.Qualified, s.NotQualified, s.Overqualified, s.AverageScore, s.LowestScore, s.HighestScore)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVALUATED\tCANDIDATE\tSCORE\tTAG\tFILE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.EvaluatedAt.UTC().Format("2006-01-02 15:04"), r.CandidateName, r.OverallScore, r.QualificationTag, r.ResumeFilename)
	}
	return tw.Flush()
}

func newClearCmd(open opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete results without --yes")
			}
			return withDeps(cmd.Context(), open, func(ctx context.Context, d *deps) error {
				n, err := d.Results.Clear(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d evaluations\n", n)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored evaluations as csv, json or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" && f == export.FormatXLSX {
				return errors.New("--out is required for xlsx")
			}
			return withDeps(cmd.Context(), open, func(ctx context.Context, d *deps) error {
				if out == "" {
					return d.Results.Export(ctx, cmd.OutOrStdout(), f)
				}
				return exportToFile(ctx, d, out, f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, json or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout when empty)")
	return cmd
}

func exportToFile(ctx context.Context, d *deps, path string, f export.Format) (err error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("op=screener.export: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("op=screener.export: %w", cerr)
		}
	}()
	return d.Results.Export(ctx, fh, f)
}

func withDeps(ctx context.Context, open opener, fn func(context.Context, *deps) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(ctx, d)
}
