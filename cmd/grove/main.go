// Command grove analyzes a multi-language codebase and prints structural
// inventories, call graphs, and call trees.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jward/grove"
)

var (
	flagLanguages      []string
	flagIgnoreDirs     []string
	flagIgnorePatterns []string
	flagFilter         string
	flagSerial         bool
	flagFormat         string
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Structural analysis and call graphs for multi-language codebases",
	Long: `grove parses Solidity, Rust, C++, Move, and Go sources with
tree-sitter, builds a cross-file call graph with name-based resolution,
and answers caller/callee, dependency, and call-tree queries.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&flagLanguages, "languages", nil, "restrict analysis to these languages")
	pf.StringSliceVar(&flagIgnoreDirs, "ignore-dirs", nil, "additional directory names to skip")
	pf.StringSliceVar(&flagIgnorePatterns, "ignore-patterns", nil, "glob patterns for files to skip")
	pf.StringVar(&flagFilter, "filter", "", "filter expression for the call-tree set")
	pf.BoolVar(&flagSerial, "serial", false, "disable parallel extraction")
	pf.StringVarP(&flagFormat, "format", "f", "text", "output format: text or json")

	rootCmd.AddCommand(parseCmd, callersCmd, calleesCmd, depsCmd, treeCmd, exportCmd)
}

// analyze runs a full session over root, layering grove.yaml, the
// environment, and command-line flags in increasing precedence.
func analyze(ctx context.Context, root string) (*grove.Analysis, error) {
	cfg, err := grove.LoadProjectConfig(root)
	if err != nil {
		return nil, err
	}
	opts := cfg.Options()

	if env := os.Getenv("GROVE_IGNORE_FOLDERS"); env != "" {
		var dirs []string
		for _, d := range strings.Split(env, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dirs = append(dirs, d)
			}
		}
		opts = append(opts, grove.WithIgnoreDirs(dirs...))
	}

	if len(flagLanguages) > 0 {
		opts = append(opts, grove.WithLanguages(flagLanguages...))
	}
	if len(flagIgnoreDirs) > 0 {
		opts = append(opts, grove.WithIgnoreDirs(flagIgnoreDirs...))
	}
	if len(flagIgnorePatterns) > 0 {
		opts = append(opts, grove.WithIgnorePatterns(flagIgnorePatterns...))
	}
	if flagFilter != "" {
		opts = append(opts, grove.WithFilterExpr(flagFilter))
	}
	if flagSerial {
		opts = append(opts, grove.WithParallel(false))
	}

	return grove.New(root, opts...).ParseProject(ctx)
}

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse a project and print the session summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dumpFunctions, _ := cmd.Flags().GetBool("functions")
		if dumpFunctions {
			return a.WriteFunctionsJSON(os.Stdout)
		}
		if flagFormat == "json" {
			return a.WriteJSON(os.Stdout)
		}
		printReport(os.Stdout, a.Report())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Parse a project and write the session to a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dbPath, _ := cmd.Flags().GetString("db")
		if err := a.ExportSQLite(dbPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "exported %d functions, %d edges to %s\n",
			len(a.All), len(a.Edges), dbPath)
		return nil
	},
}

func init() {
	parseCmd.Flags().Bool("functions", false, "dump the full function inventory as JSON")
	exportCmd.Flags().String("db", "grove.db", "output database path")
}

func main() {
	// Optional .env for GROVE_IGNORE_FOLDERS and friends.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
