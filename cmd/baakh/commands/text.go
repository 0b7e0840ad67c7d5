package commands

import (
	"fmt"

	"baakh/internal/sindhi"

	"github.com/spf13/cobra"
)

func romanizeCmd() *cobra.Command {
	var (
		mode     string
		dictPath string
		detail   bool
	)

	cmd := &cobra.Command{
		Use:   "romanize [text...]",
		Short: "Romanize Sindhi text from the arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sindhi.ParseMode(mode)
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			var lex sindhi.Lexicon
			if dictPath != "" {
				dict, err := sindhi.LoadDictionary(dictPath)
				if err != nil {
					return err
				}
				lex = dict
			}

			result := sindhi.NewRomanizer(lex).RomanizeDetailed(text, m)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			if detail {
				fmt.Fprintf(cmd.ErrOrStderr(), "mode=%s words=%d replacements=%d dictionary_hits=%d\n",
					result.Mode, result.Words, result.Replacements, result.DictionaryHits)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "smart", "hesudhar mode: smart or global")
	cmd.Flags().StringVar(&dictPath, "dict", "", "dictionary file with word|correction overrides")
	cmd.Flags().BoolVar(&detail, "detail", false, "print counts to stderr")
	return cmd
}

func hesudharCmd() *cobra.Command {
	var (
		mode  string
		count bool
	)

	cmd := &cobra.Command{
		Use:   "hesudhar [text...]",
		Short: "Replace HEH with HEH DOACHASHMEE",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sindhi.ParseMode(mode)
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			out, n := sindhi.NormalizeHesudhar(text, m)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			if count {
				fmt.Fprintf(cmd.ErrOrStderr(), "replacements=%d\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "smart", "smart or global")
	cmd.Flags().BoolVar(&count, "count", false, "print the replacement count to stderr")
	return cmd
}
