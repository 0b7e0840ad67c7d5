package commands

import (
	"bufio"
	"fmt"
	"strings"

	"baakh/internal/database"
	"baakh/internal/database/repositories"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office users",
	}
	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var (
		username string
		password string
		role     string
		email    string
		fullName string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user who can sign in to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("user create needs database.type to be set")
			}

			if password == "" {
				// Read from stdin so the password stays out of shell history.
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if len(password) < cfg.Security.PasswordMinLength {
				return fmt.Errorf("password must be at least %d characters", cfg.Security.PasswordMinLength)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.NewConnection(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			user := &database.User{
				Username:     username,
				Email:        email,
				PasswordHash: string(hash),
				FullName:     fullName,
				Role:         role,
				IsActive:     true,
			}
			if err := repositories.NewUserRepository(db).Create(ctx, user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.Flags().StringVar(&role, "role", "editor", "role claim placed in issued tokens")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.MarkFlagRequired("username")
	return cmd
}
