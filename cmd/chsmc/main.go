// Command chsmc is the CHSM source-to-source compiler's CLI (spec 6): it
// parses, validates, and generates C++ or Java source from a single CHSM
// input file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/generator"
	"github.com/aledsdavies/chsmc/pkgs/paramscan"
	"github.com/aledsdavies/chsmc/pkgs/parser"
	"github.com/aledsdavies/chsmc/pkgs/validator"
)

// version is overwritten at release-build time via -ldflags.
var version = "dev"

// Exit codes (spec 6: "distinct non-zero codes for usage error, input open
// failure, internal invariant violation, and 'source had errors'").
const (
	exitSuccess      = 0
	exitUsage        = 1
	exitIOError      = 2
	exitInternal     = 3
	exitSourceErrors = 4
)

type options struct {
	declPath string
	defPath  string
	stdout   bool
	language string
	noLine   bool
	showVer  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt options
	exitCode := exitSuccess

	root := &cobra.Command{
		Use:           "chsmc [flags] SOURCE",
		Short:         "compile a CHSM source file into C++ or Java",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if opt.showVer {
				if opt.stdout || opt.declPath != "" || opt.defPath != "" ||
					opt.language != "" || opt.noLine || len(cmdArgs) != 0 {
					return fmt.Errorf("--version cannot be combined with any other flag or argument")
				}
				return nil
			}
			if opt.stdout && (opt.declPath != "" || opt.defPath != "") {
				return fmt.Errorf("--stdout cannot be combined with --declaration/--definition")
			}
			if len(cmdArgs) == 0 {
				return fmt.Errorf("missing SOURCE argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if opt.showVer {
				fmt.Fprintf(cmd.OutOrStdout(), "chsmc %s\n", version)
				return nil
			}
			code, err := compile(cmd, cmdArgs[0], opt)
			exitCode = code
			return err
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opt.declPath, "declaration", "d", "", "declaration output path")
	flags.StringVarP(&opt.defPath, "definition", "D", "", "definition output path")
	flags.BoolVarP(&opt.stdout, "stdout", "E", false, "write generated code to standard output")
	flags.StringVarP(&opt.language, "language", "x", "", "backend language: c++ or java (default: inferred from SOURCE's extension)")
	flags.BoolVarP(&opt.noLine, "no-line", "P", false, "suppress line directives in generated code")
	flags.BoolVarP(&opt.showVer, "version", "v", false, "print version and exit")

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chsmc:", err)
		if exitCode == exitSuccess {
			exitCode = exitUsage
		}
	}
	return exitCode
}

// compile runs the full pipeline — parse, validate, generate, write — and
// returns the exit code the caller should use alongside any error to print.
func compile(cmd *cobra.Command, srcPath string, opt options) (int, error) {
	backend, err := resolveBackend(srcPath, opt.language)
	if err != nil {
		return exitUsage, err
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return exitIOError, fmt.Errorf("reading %s: %w", srcPath, err)
	}

	dialect := paramscan.CPP
	if _, ok := backend.(generator.Java); ok {
		dialect = paramscan.Java
	}

	p, err := parser.New(string(src), srcPath, dialect)
	if err != nil {
		return exitIOError, fmt.Errorf("opening user-code sink: %w", err)
	}
	defer p.Close()

	chsm, tbl, bag := p.Parse()
	if !bag.HasErrors() {
		validator.Validate(chsm, tbl, bag)
	}
	if bag.HasErrors() {
		printDiagnostics(cmd, bag)
		return exitSourceErrors, fmt.Errorf("%d error(s)", bag.ErrorCount())
	}
	printDiagnostics(cmd, bag) // warnings only, at this point

	if err := p.Sink().Rewind(); err != nil {
		return exitInternal, fmt.Errorf("rewinding user-code sink: %w", err)
	}
	model, err := generator.BuildModel(chsm, tbl, p.Sink().NewChunkReader(), generator.Options{
		NoLine:     opt.noLine,
		SourceFile: srcPath,
	})
	if err != nil {
		return exitInternal, err
	}

	decl, def, err := backend.Generate(model)
	if err != nil {
		return exitInternal, err
	}

	if opt.stdout {
		fmt.Fprint(cmd.OutOrStdout(), string(decl))
		if backend.DeclExt() != backend.DefExt() {
			fmt.Fprint(cmd.OutOrStdout(), string(def))
		}
		return exitSuccess, nil
	}

	declPath := opt.declPath
	if declPath == "" {
		declPath = defaultOutputPath(srcPath, backend.DeclExt())
	}
	if err := os.WriteFile(declPath, decl, 0o644); err != nil {
		return exitIOError, fmt.Errorf("writing %s: %w", declPath, err)
	}
	if backend.DeclExt() != backend.DefExt() || opt.defPath != "" {
		defPath := opt.defPath
		if defPath == "" {
			defPath = defaultOutputPath(srcPath, backend.DefExt())
		}
		if err := os.WriteFile(defPath, def, 0o644); err != nil {
			return exitIOError, fmt.Errorf("writing %s: %w", defPath, err)
		}
	}
	return exitSuccess, nil
}

// resolveBackend honors an explicit --language over extension inference,
// per spec 6 ("if absent, inferred from input extension").
func resolveBackend(srcPath, language string) (generator.Backend, error) {
	if language != "" {
		b := generator.ByName(language)
		if b == nil {
			return nil, fmt.Errorf("unsupported --language %q (want c++ or java)", language)
		}
		return b, nil
	}
	b := generator.InferFromExtension(srcPath)
	if b == nil {
		return nil, fmt.Errorf("cannot infer backend from %q; pass --language", srcPath)
	}
	return b, nil
}

func defaultOutputPath(srcPath, ext string) string {
	base := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	return base + ext
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) {
	for _, d := range bag.All() {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Error())
	}
}
