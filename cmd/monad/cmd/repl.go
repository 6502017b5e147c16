package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/monad-lang/monad/internal/repl"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive Monad evaluator",
	Long: `Start a read-eval-print loop: each line is JIT-compiled against a
persistent environment, so a define on one line is visible to every
later line.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(_ *cobra.Command, _ []string) error {
	r, err := repl.New()
	if err != nil {
		return fmt.Errorf("starting evaluator: %w", err)
	}
	defer r.Dispose()

	scanner := bufio.NewScanner(os.Stdin)
	read := func() (string, bool) {
		fmt.Print("monad> ")
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}
	report := func(err error) {
		fmt.Fprintln(os.Stderr, err)
	}

	r.Run(read, report)
	return nil
}
