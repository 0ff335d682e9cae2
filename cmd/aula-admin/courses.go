package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digieduhack/aula-api/internal/data"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/service"
)

var claimOrphansEmail string

var claimOrphansCmd = &cobra.Command{
	Use:   "claim-orphans",
	Short: "Assign every course without an owner to an admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, env *commandEnv, db *sql.DB) error {
			acct, err := data.NewAccountRepo(db).GetByEmail(ctx, claimOrphansEmail)
			if err != nil {
				return fmt.Errorf("lookup account %s: %w", claimOrphansEmail, err)
			}
			policy := env.Config.AdminPolicy()
			principal := &domainauth.Principal{
				UserID:  acct.ID,
				Email:   acct.Email,
				IsAdmin: policy.IsAdmin(acct.Email),
			}
			if !principal.IsAdmin {
				return fmt.Errorf("%s is not an admin of @%s", acct.Email, policy.Domain())
			}

			courses := service.NewCourseService(service.CourseServiceOptions{
				Repo:   data.NewCourseRepo(db),
				Logger: env.Logger,
			})
			n, err := courses.ClaimOrphans(ctx, principal)
			if err != nil {
				return err
			}
			cmd.Printf("claimed %d course(s) for %s\n", n, acct.Email)
			return nil
		})
	},
}

func init() {
	claimOrphansCmd.Flags().StringVar(&claimOrphansEmail, "email", "", "Email of the admin account taking ownership")
	_ = claimOrphansCmd.MarkFlagRequired("email")
}
