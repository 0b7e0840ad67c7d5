package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"baakh/internal/database"
	"baakh/internal/database/repositories"
	"baakh/internal/dictionary"
	"baakh/internal/sindhi"

	"github.com/spf13/cobra"
)

func dictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the romanizer dictionary file",
	}
	cmd.AddCommand(dictCheckCmd(), dictExportCmd())
	return cmd
}

func dictCheckCmd() *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Parse a dictionary file and report its size",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Dictionary.Path
			}

			dict, err := sindhi.LoadDictionary(path)
			if err != nil {
				return err
			}
			if !normalize {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", path, len(dict))
				return nil
			}

			// Canonical form: comments and duplicates dropped, sorted by word.
			if _, err := sindhi.WriteDictionary(cmd.OutOrStdout(), dict.Entries()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d entries\n", path, len(dict))
			return nil
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "print the dictionary in canonical form instead of a summary")
	return cmd
}

func dictExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write active database rows to the dictionary file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("dict export needs database.type to be set")
			}
			if output == "" {
				output = cfg.Dictionary.Path
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.NewConnection(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repositories.NewDictionaryRepository(db, cfg.Database.DictionaryTable)
			result, err := dictionary.NewExporter(repo, output).Export(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d written, %d skipped in %s\n",
				result.Path, result.Rows, result.Written, result.Skipped, result.Duration)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default: dictionary.path from config)")
	return cmd
}
