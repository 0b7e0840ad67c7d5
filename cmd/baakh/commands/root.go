// Package commands implements the baakh command line tool.
package commands

import (
	"io"
	"strings"

	"baakh/pkg/config"

	"github.com/spf13/cobra"
)

var configPath string

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "baakh",
		Short:         "Sindhi text normalization and back-office tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "configs/server.yaml", "path to the service configuration file")

	root.AddCommand(romanizeCmd(), hesudharCmd(), tokenCmd(), dictCmd(), userCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configPath)
}

// inputText joins args, or reads all of stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
