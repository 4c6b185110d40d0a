package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/klauskaan/cal-langserver/internal/lexer"
)

var (
	lexShowPos     bool
	lexOnlyUnknown bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a C/AL source file and print the resulting tokens",
	Long: `Tokenize (lex) a C/AL object file and print every token the lexer
produces. Reads from stdin when no file is given.

The lexer never fails: unclassifiable bytes surface as UNKNOWN tokens
instead of stopping the scan. Use --only-unknown to find them quickly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token line:column positions")
	lexCmd.Flags().BoolVar(&lexOnlyUnknown, "only-unknown", false, "show only UNKNOWN tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")

	l := lexer.New(input)
	var tokens []lexer.Token
	unknownCount := 0

	for {
		tok := l.NextToken()
		if tok.Kind == lexer.UNKNOWN {
			unknownCount++
		}
		if !lexOnlyUnknown || tok.Kind == lexer.UNKNOWN || tok.Kind == lexer.EOF {
			tokens = append(tokens, tok)
		}
		if tok.Kind == lexer.EOF {
			break
		}
	}

	if asJSON {
		if err := printTokensJSON(tokens); err != nil {
			return err
		}
	} else {
		for _, tok := range tokens {
			printToken(tok)
		}
	}

	if lexOnlyUnknown && unknownCount > 0 {
		return fmt.Errorf("found %d unknown token(s)", unknownCount)
	}
	return nil
}

func printToken(tok lexer.Token) {
	output := fmt.Sprintf("[%-10s]", tok.Kind)
	if tok.Kind == lexer.EOF {
		output += " EOF"
	} else {
		output += fmt.Sprintf(" %q", tok.Value)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%d:%d", tok.Line, tok.Column)
	}
	fmt.Println(output)
}

func printTokensJSON(tokens []lexer.Token) error {
	json := `{"tokens":[]}`
	var err error
	for i, tok := range tokens {
		path := fmt.Sprintf("tokens.%d", i)
		json, err = sjson.Set(json, path+".kind", tok.Kind.String())
		if err != nil {
			return err
		}
		json, err = sjson.Set(json, path+".value", tok.Value)
		if err != nil {
			return err
		}
		json, err = sjson.Set(json, path+".line", tok.Line)
		if err != nil {
			return err
		}
		json, err = sjson.Set(json, path+".column", tok.Column)
		if err != nil {
			return err
		}
	}
	_, err = os.Stdout.WriteString(json + "\n")
	return err
}
