package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digieduhack/aula-api/internal/adapters/localidp"
	"github.com/digieduhack/aula-api/internal/data"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

var (
	createAccountEmail         string
	createAccountPassword      string
	createAccountPasswordStdin bool
)

var createAccountCmd = &cobra.Command{
	Use:   "create-account",
	Short: "Create a credential for the built-in identity provider (AUTH_MODE=password)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, password, err := accountInput(createAccountEmail, createAccountPassword, createAccountPasswordStdin, cmd.InOrStdin())
		if err != nil {
			return err
		}
		hash, err := localidp.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		return withDatabase(cmd.Context(), func(ctx context.Context, env *commandEnv, db *sql.DB) error {
			acct, createErr := data.NewAccountRepo(db).Create(ctx, email, hash)
			if createErr != nil {
				return fmt.Errorf("create account: %w", createErr)
			}
			role := "student"
			if env.Config.AdminPolicy().IsAdmin(acct.Email) {
				role = "admin"
			}
			cmd.Printf("created account %s (%s) id=%s\n", acct.Email, role, acct.ID)
			return nil
		})
	},
}

// accountInput normalizes the email and resolves the password from the flag or stdin.
func accountInput(email, password string, fromStdin bool, stdin io.Reader) (string, string, error) {
	email = domainauth.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", "", errors.New("--email must be a valid email address")
	}
	if fromStdin && password != "" {
		return "", "", errors.New("--password-stdin and --password are mutually exclusive")
	}
	if fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if len(password) < domainauth.MinPasswordLen {
		return "", "", fmt.Errorf("password must be at least %d characters", domainauth.MinPasswordLen)
	}
	return email, password, nil
}

func init() {
	createAccountCmd.Flags().StringVar(&createAccountEmail, "email", "", "Email address for the account")
	createAccountCmd.Flags().StringVar(&createAccountPassword, "password", "", "Password (discouraged; prefer --password-stdin)")
	createAccountCmd.Flags().BoolVar(&createAccountPasswordStdin, "password-stdin", false, "Read the password from stdin")
	_ = createAccountCmd.MarkFlagRequired("email")
}
