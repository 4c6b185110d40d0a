package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/diagnostic"
	"github.com/klauskaan/cal-langserver/pkg/cal"
)

var parseDumpAST bool
var parseShowSource bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a C/AL object file and display diagnostics or its AST",
	Long: `Parse a C/AL object file into its abstract syntax tree.

Reads from stdin when no file is given. Prints every recovered parse
diagnostic to stderr; the AST is always printed (or summarized), even when
diagnostics were reported, since parsing in this frontend is total and
never aborts on the first error.

Use --dump-ast to show the full node tree instead of the object header.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST node tree")
	parseCmd.Flags().BoolVar(&parseShowSource, "show-source", false, "render each diagnostic against its source line with a caret")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	doc := cal.Parse(input)

	if asJSON {
		return printParseResultJSON(doc)
	}

	diags := doc.Diagnostics
	if cfg.MaxDiagnostics > 0 && len(diags) > cfg.MaxDiagnostics {
		diags = diags[:cfg.MaxDiagnostics]
	}
	for _, d := range diags {
		if parseShowSource {
			se := diagnostic.SourceError{Message: d.Message, Line: d.Line, Column: d.Column, Code: d.Code}
			fmt.Fprintln(cmd.ErrOrStderr(), se.Format(input))
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d:%d: %s", d.Line, d.Column, d.Message)
		if d.Code != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), " [%s]", d.Code)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if cfg.MaxDiagnostics > 0 && len(doc.Diagnostics) > cfg.MaxDiagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "... %d more diagnostic(s) suppressed (maxDiagnostics: %d)\n",
			len(doc.Diagnostics)-cfg.MaxDiagnostics, cfg.MaxDiagnostics)
	}

	if doc.AST == nil || doc.AST.Object == nil {
		fmt.Println("(no OBJECT header recognized)")
	} else if parseDumpAST {
		dumpASTNode(doc.AST, 0)
	} else {
		fmt.Println(doc.AST.Object.String())
	}

	if len(doc.Diagnostics) > 0 {
		return fmt.Errorf("parsing reported %d diagnostic(s)", len(doc.Diagnostics))
	}
	return nil
}

func printParseResultJSON(doc *cal.Document) error {
	json := `{}`
	var err error

	if doc.AST != nil && doc.AST.Object != nil {
		json, err = sjson.Set(json, "object", doc.AST.Object.String())
		if err != nil {
			return err
		}
	}
	for i, d := range doc.Diagnostics {
		path := fmt.Sprintf("diagnostics.%d", i)
		if json, err = sjson.Set(json, path+".message", d.Message); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".code", d.Code); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".line", d.Line); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".column", d.Column); err != nil {
			return err
		}
	}
	for i, s := range doc.SkippedRegions {
		path := fmt.Sprintf("skippedRegions.%d", i)
		if json, err = sjson.Set(json, path+".reason", s.Reason); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".tokenCount", s.TokenCount); err != nil {
			return err
		}
	}

	fmt.Println(json)
	return nil
}

func dumpASTNode(node any, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Document:
		fmt.Printf("%sDocument\n", pad)
		if n.Object != nil {
			dumpASTNode(n.Object, indent+1)
		}
	case *ast.ObjectDecl:
		fmt.Printf("%sObjectDecl %s %d %s\n", pad, n.ObjectKind, n.ObjectID, n.ObjectName)
		for _, f := range n.Fields {
			dumpASTNode(f, indent+1)
		}
		if n.Code != nil {
			dumpASTNode(n.Code, indent+1)
		}
	case *ast.FieldDecl:
		fmt.Printf("%sFieldDecl %d %s : %s\n", pad, n.ID, n.Name, n.DataType)
	case *ast.CodeSection:
		fmt.Printf("%sCodeSection (%d var, %d procedures, %d triggers)\n",
			pad, len(n.Variables), len(n.Procedures), len(n.Triggers))
		for _, p := range n.Procedures {
			dumpASTNode(p, indent+1)
		}
		for _, t := range n.Triggers {
			dumpASTNode(t, indent+1)
		}
	case *ast.ProcedureDecl:
		fmt.Printf("%sProcedureDecl %s\n", pad, n.String())
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *ast.TriggerDecl:
		fmt.Printf("%sTriggerDecl %s\n", pad, n.Name)
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *ast.BlockStatement:
		fmt.Printf("%sBlockStatement (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement\n", pad)
		dumpASTNode(n.Expression, indent+1)
	case *ast.AssignStatement:
		fmt.Printf("%sAssignStatement %s := %s\n", pad, n.Target, n.Value)
	case *ast.IfStatement:
		fmt.Printf("%sIfStatement\n", pad)
		dumpASTNode(n.Condition, indent+1)
		dumpASTNode(n.Then, indent+1)
		if n.Else != nil {
			dumpASTNode(n.Else, indent+1)
		}
	case *ast.BinaryExpression:
		fmt.Printf("%sBinaryExpression (%s)\n", pad, n.Operator)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.CallExpression:
		fmt.Printf("%sCallExpression %s\n", pad, n.Callee)
		for _, a := range n.Arguments {
			dumpASTNode(a, indent+1)
		}
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Value)
	case *ast.IntegerLiteral:
		fmt.Printf("%sIntegerLiteral: %d\n", pad, n.Value)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, n.Value)
	default:
		if n, ok := node.(fmt.Stringer); ok {
			fmt.Printf("%s%T: %s\n", pad, node, n.String())
		} else {
			fmt.Printf("%s%T\n", pad, node)
		}
	}
}
