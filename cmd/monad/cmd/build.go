package cmd

import (
	"fmt"
	"os"

	"github.com/monad-lang/monad/internal/backend"
	"github.com/monad-lang/monad/internal/codegen"
	"github.com/monad-lang/monad/internal/config"
	"github.com/monad-lang/monad/internal/parser"
	"github.com/monad-lang/monad/internal/reporter"
	"github.com/spf13/cobra"
)

var (
	outputBase string
	emitIR     bool
	emitBC     bool
	emitAsm    bool
	emitObj    bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a Monad source file to a native artifact",
	Long: `Compile a Monad program ahead of time and emit one of: IR text,
bitcode, assembly, an object file, or (the default) a linked executable.

Examples:
  # Build an executable
  monad build program.mo

  # Build with a custom output base name
  monad build program.mo -o prog

  # Emit LLVM IR text instead of linking
  monad build program.mo --emit-ir`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&outputBase, "output", "o", "", "output base name (default: input basename without extension)")
	buildCmd.Flags().BoolVar(&emitIR, "emit-ir", false, "emit LLVM IR text (<out>.ll)")
	buildCmd.Flags().BoolVar(&emitBC, "emit-bc", false, "emit LLVM bitcode (<out>.bc)")
	buildCmd.Flags().BoolVar(&emitAsm, "emit-asm", false, "emit target assembly (<out>.s)")
	buildCmd.Flags().BoolVar(&emitObj, "emit-obj", false, "emit an object file (<out>.o)")
}

func runBuild(_ *cobra.Command, args []string) error {
	inputPath := args[0]

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", inputPath, err)
	}
	source := string(content)

	cfg := config.Resolve(inputPath, outputBase, emitIR, emitBC, emitAsm, emitObj)

	rep := reporter.New(inputPath, source)
	forms, err := parser.ParseAll(source, rep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("parsing failed")
	}

	e := codegen.New(cfg.OutBase, rep)
	defer e.Dispose()

	if err := e.LowerProgram(forms); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("code generation failed")
	}

	if err := backend.Emit(e.Mod, cfg); err != nil {
		return fmt.Errorf("emitting artifact: %w", err)
	}

	fmt.Printf("Compiled %s -> %s\n", inputPath, cfg.OutBase)
	return nil
}
