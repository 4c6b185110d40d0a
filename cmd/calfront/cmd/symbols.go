package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/klauskaan/cal-langserver/pkg/cal"
)

var symbolsFilter string

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "Dump a document's declaration table and reference counts",
	Long: `Parse a C/AL object file, harvest its declarations (procedures,
parameters, variables, object-level triggers, fields), and print each one
with its reference count.

Reads from stdin when no file is given. With --json, the declaration table
is built as JSON; pass --filter with a gjson path
(https://github.com/tidwall/gjson) to query it instead of dumping the
whole thing, e.g. --filter "declarations.#(kind==\"procedure\")#.name".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().StringVar(&symbolsFilter, "filter", "", "gjson path to query the declaration table with")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	doc := cal.Parse(input)
	syms := doc.Harvest()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON || symbolsFilter != "" {
		return printSymbolsJSON(syms)
	}

	for _, d := range syms.Declarations() {
		label := syms.ReferenceCountLabel(d.Name)
		fmt.Printf("%-10s %-24s %d:%d  %s\n", d.Kind, d.Name, d.StartLine, d.StartColumn, label)
	}
	return nil
}

func printSymbolsJSON(syms *cal.Symbols) error {
	json := `{"declarations":[]}`
	var err error

	for i, d := range syms.Declarations() {
		path := fmt.Sprintf("declarations.%d", i)
		if json, err = sjson.Set(json, path+".name", d.Name); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".kind", d.Kind); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".startLine", d.StartLine); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".startColumn", d.StartColumn); err != nil {
			return err
		}
		if json, err = sjson.Set(json, path+".references", syms.CountReferences(d.Name)); err != nil {
			return err
		}
	}

	if symbolsFilter != "" {
		result := gjson.Get(json, symbolsFilter)
		fmt.Println(result.String())
		return nil
	}

	fmt.Println(json)
	return nil
}
