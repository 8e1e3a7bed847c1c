// Command sigilc is a thin cobra shell over the five internal/command
// operations (§4.10): tokenize, parse, compile, compile-and-run, and
// compile-tests. Cobra only parses arguments, renders help text, and sets
// the process exit code — every behaviour lives in internal/command.
//
// Grounded on the teacher's cmd/ailang/main.go command dispatch, rebuilt
// on cobra (already an indirect dependency of the teacher's module graph)
// instead of the teacher's flag-based switch, matching the rest of the
// pack's CLI convention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-lang/sigilc/internal/command"
	"github.com/sigil-lang/sigilc/internal/diag"
)

var jsonOutput bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sigilc",
		Short:         "Compiler for the Sigil language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "render the envelope as machine-readable JSON")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newCompileCmd(),
		newCompileAndRunCmd(),
		newCompileTestsCmd(),
	)
	return root
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Tokenize a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(command.Tokenize(args[0]))
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file to its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(command.Parse(args[0]))
		},
	}
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a file and its module graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(command.Compile(args[0]))
		},
	}
}

func newCompileAndRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile-and-run <file>",
		Short: "Compile a file and emit a runner stub for its main",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(command.CompileAndRun(args[0]))
		},
	}
}

func newCompileTestsCmd() *cobra.Command {
	var root string
	c := &cobra.Command{
		Use:   "compile-tests",
		Short: "Compile every test file under the project's tests directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				var err error
				root, err = os.Getwd()
				if err != nil {
					return err
				}
			}
			return emit(command.CompileTests(root))
		},
	}
	c.Flags().StringVar(&root, "root", "", "project directory to search from (defaults to the current directory)")
	return c
}

// emit renders an envelope, returning a non-nil error (so Execute exits
// non-zero) whenever the envelope itself reports failure.
func emit(e diag.Envelope) error {
	if jsonOutput {
		out, err := diag.RenderMachine(e)
		if err != nil {
			return err
		}
		fmt.Println(out)
	} else {
		fmt.Print(diag.RenderHuman(e))
	}
	if !e.OK {
		return fmt.Errorf("%s failed", e.Command)
	}
	return nil
}
