package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klauskaan/cal-langserver/pkg/cal"
)

var resolveVerbose bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <type-expression>",
	Short: "Resolve a DataType expression to its semantic type",
	Long: `Resolve prints the semantic type a C/AL type expression resolves to,
e.g.:

  calfront resolve "TEMPORARY Record 18"
  calfront resolve "Text[30]"
  calfront resolve "Option 'Open,Released,Closed'"

Internally the expression is parsed as a single VAR declaration's type
clause, so it accepts exactly the grammar spec.md's VAR parsing does.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveVerbose, "verbose-type", false, "render the type with full verbosity")
}

func runResolve(cmd *cobra.Command, args []string) error {
	fragment := fmt.Sprintf("OBJECT Codeunit 1 Fragment\n{\n  CODE\n  {\n    VAR\n      X@1 : %s;\n  }\n}", args[0])

	doc := cal.Parse(fragment)
	if doc.AST == nil || doc.AST.Object == nil || doc.AST.Object.Code == nil || len(doc.AST.Object.Code.Variables) == 0 {
		return fmt.Errorf("could not parse %q as a type expression", args[0])
	}

	v := doc.AST.Object.Code.Variables[0]
	typ := cal.ResolveVariableType(v, cal.ResolveOptions{})

	fmt.Printf("Kind: %s\n", typ.Kind())
	fmt.Printf("Type: %s\n", cal.TypeToString(typ, resolveVerbose, 0))
	return nil
}
