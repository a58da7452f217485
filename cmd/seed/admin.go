package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/infrastructure/repositories"
	"donation-platform.backend/internal/usecases"
	"donation-platform.backend/pkg/jwt"
)

func adminCmd(deps seedDeps) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an admin user or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return errors.New("--email is required")
			}

			db, closeDB, err := deps.connect()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			userRepo := repositories.NewUserRepository(db)

			user, err := userRepo.GetByEmail(ctx, email)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Promoting existing user %s\n", email)
			case errors.Is(err, domainerrors.ErrNotFound):
				if len(password) < 6 {
					return errors.New("--password of at least 6 characters is required for a new user")
				}
				if name == "" {
					name = "Admin"
				}
				// token signing is unused here, any secret will do
				auth := usecases.NewAuthUsecase(userRepo, repositories.NewDonationRepository(db), jwt.NewJWTService("seed", 0))
				resp, err := auth.Register(ctx, &entities.CreateUserInput{Name: name, Email: email, Password: password})
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				user = resp.User
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", email)
			default:
				return err
			}

			if err := userRepo.SetAdmin(ctx, user.ID, true); err != nil {
				return fmt.Errorf("failed to grant admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new user")
	cmd.Flags().StringVar(&name, "name", "Admin", "display name for a new user")
	return cmd
}
