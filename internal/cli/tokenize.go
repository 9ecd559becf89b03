package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"textok/internal/usecase"
)

var (
	tokenizeJSON  bool
	tokenizeSep   string
	tokenizeCount bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text...]",
	Short: "Tokenize text from arguments or stdin",
	Long: `Tokenize the given text. With no arguments, stdin is read and each
line is tokenized on its own.

Examples:
  textok tokenize "Don't stop!"
  cat book.txt | textok tokenize --json
  textok tokenize -t whitespace --count "a  b c"`,
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "output each result as a JSON array")
	tokenizeCmd.Flags().StringVar(&tokenizeSep, "sep", " ", "separator between tokens in plain output")
	tokenizeCmd.Flags().BoolVarP(&tokenizeCount, "count", "c", false, "print only the number of tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	tok, err := buildTokenizer()
	if err != nil {
		return err
	}
	uc := usecase.NewTokenizeUseCase(tok, nil, 0)
	out := cmd.OutOrStdout()

	emit := func(tokens []string) error {
		switch {
		case tokenizeCount:
			_, err := fmt.Fprintln(out, len(tokens))
			return err
		case tokenizeJSON:
			data, err := json.Marshal(tokens)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		default:
			_, err := fmt.Fprintln(out, strings.Join(tokens, tokenizeSep))
			return err
		}
	}

	if len(args) > 0 {
		return emit(uc.Text(strings.Join(args, " ")))
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return fmt.Errorf("no text given and stdin is a terminal")
		}
	}

	return uc.Lines(in, func(line int, tokens []string) error {
		return emit(tokens)
	})
}
