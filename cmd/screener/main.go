// Command screener runs resume screening batches and manages stored results
// from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "screener",
		Short:         "Screen resumes against a job description",
		Long:          "screener evaluates a batch of resumes against one job description with a multi-stage LLM pipeline and keeps the results in PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(open), newResultsCmd(open), newClearCmd(open), newExportCmd(open), newHashPasswordCmd())
	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(openContainer).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
