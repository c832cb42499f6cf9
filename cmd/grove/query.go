package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var callersCmd = &cobra.Command{
	Use:   "callers <path> <function>",
	Short: "List the direct callers of a function",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, ok := a.Function(args[1]); !ok {
			return fmt.Errorf("function not found: %s", args[1])
		}
		return printNames(a.Callers(args[1]))
	},
}

var calleesCmd = &cobra.Command{
	Use:   "callees <path> <function>",
	Short: "List the direct callees of a function, unresolved names included",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, ok := a.Function(args[1]); !ok {
			return fmt.Errorf("function not found: %s", args[1])
		}
		return printNames(a.Callees(args[1]))
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <path> <function>",
	Short: "Show the transitive dependency graph of a function",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		depth, _ := cmd.Flags().GetInt("depth")
		deps, err := a.Dependencies(args[1], depth)
		if err != nil {
			return err
		}
		if flagFormat == "json" {
			return printJSON(deps)
		}
		printDependencies(os.Stdout, deps)
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree <path> <function>",
	Short: "Show the call tree of a function",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		depth, _ := cmd.Flags().GetInt("depth")
		tree, err := a.ExtractCallTreeWithDepth(args[1], depth)
		if err != nil {
			return err
		}
		if flagFormat == "json" {
			return printJSON(tree)
		}
		printTree(os.Stdout, tree)
		return nil
	},
}

func init() {
	depsCmd.Flags().Int("depth", 0, "traversal depth (0 uses the default ceiling)")
	treeCmd.Flags().Int("depth", 0, "tree depth (0 uses the default ceiling)")
}

func printNames(names []string) error {
	if flagFormat == "json" {
		if names == nil {
			names = []string{}
		}
		return printJSON(names)
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
