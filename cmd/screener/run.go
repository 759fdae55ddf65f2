package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/ai-resume-screener/internal/usecase"
)

type runOptions struct {
	job       string
	keep      bool
	workspace string
	asJSON    bool
}

func newRunCmd(open opener) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] resume...",
		Short: "Screen resumes against a job description and print a ranked table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.job == "" && !o.keep {
				return errors.New("--job is required unless --keep reuses a stored job description")
			}
			return runScreening(cmd.Context(), cmd.OutOrStdout(), open, o, args)
		},
	}
	cmd.Flags().StringVarP(&o.job, "job", "j", "", "Path to the job description (.txt, .pdf or .docx)")
	cmd.Flags().BoolVar(&o.keep, "keep", false, "Retain the job description for later runs in this workspace")
	cmd.Flags().StringVarP(&o.workspace, "workspace", "w", "", "Workspace the retained job description belongs to")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print the full report as JSON")
	return cmd
}

func runScreening(ctx context.Context, out io.Writer, open opener, o runOptions, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	svc, err := d.Screening()
	if err != nil {
		return err
	}

	// The extractor only reads from the temp directory and the working tree.
	dir, err := os.MkdirTemp("", "screener-*")
	if err != nil {
		return fmt.Errorf("op=screener.run: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	batch := usecase.Batch{Workspace: o.workspace, RetainJobDescription: o.keep}
	if o.job != "" {
		doc, err := stageFile(dir, "job_desc", o.job)
		if err != nil {
			return err
		}
		batch.Job = &doc
	}
	for i, f := range files {
		doc, err := stageFile(dir, fmt.Sprintf("resume_%03d", i), f)
		if err != nil {
			return err
		}
		batch.Resumes = append(batch.Resumes, doc)
	}

	rep, err := svc.Run(ctx, batch)
	if err != nil {
		return err
	}
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return printReport(out, rep)
}

// stageFile copies src into dir keeping its extension and original name.
func stageFile(dir, stem, src string) (usecase.Document, error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return usecase.Document{}, fmt.Errorf("op=screener.stageFile: %w", err)
	}
	defer func() { _ = in.Close() }()

	dst := filepath.Join(dir, stem+filepath.Ext(src))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return usecase.Document{}, fmt.Errorf("op=screener.stageFile: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return usecase.Document{}, fmt.Errorf("op=screener.stageFile: %w", err)
	}
	if err := out.Close(); err != nil {
		return usecase.Document{}, fmt.Errorf("op=screener.stageFile: %w", err)
	}
	return usecase.Document{Filename: filepath.Base(src), Path: dst}, nil
}

// printReport writes the evaluations ranked by score, then failures.
func printReport(w io.Writer, rep usecase.Report) error {
	evals := append(rep.Evaluations[:0:0], rep.Evaluations...)
	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].OverallScore != evals[j].OverallScore {
			return evals[i].OverallScore > evals[j].OverallScore
		}
		return evals[i].CandidateName < evals[j].CandidateName
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCANDIDATE\tSCORE\tTAG\tFILE")
	for i, ev := range evals {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i+1, ev.CandidateName, ev.OverallScore, ev.QualificationTag, ev.ResumeFilename)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.Errors) > 0 {
		fmt.Fprintf(w, "\n%d failed:\n", len(rep.Errors))
		for _, fe := range rep.Errors {
			stage := fe.Stage
			if stage == "" {
				stage = "-"
			}
			fmt.Fprintf(w, "  %s [%s] %s\n", fe.Filename, stage, fe.Message)
		}
	}
	_, err := fmt.Fprintf(w, "\nsession %s: %d processed, %d failed, average %.1f\n",
		rep.SessionID, rep.Summary.Processed, rep.Summary.Failed, rep.Summary.AverageScore)
	return err
}
