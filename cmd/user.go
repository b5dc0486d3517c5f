package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yatube/internal/auth"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/models"
)

var (
	// user create flags
	userName     string
	userEmail    string
	userPassword string
	userFirst    string
	userLast     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user with the same checks as the signup page.

Examples:
  yatube user create --username leo --email leo@example.com --password s3cretpass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := &forms.SignupForm{
			FirstName: userFirst,
			LastName:  userLast,
			Username:  userName,
			Email:     userEmail,
			Password:  userPassword,
			Password2: userPassword,
		}
		if errs := form.Validate(); errs != nil {
			return errs
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		u := &models.User{
			Username:  form.Username,
			Email:     form.Email,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Password:  form.Password,
		}
		svc := auth.NewService(store, cfg.Session.Expiration, cfg.Server.CookieSecure)
		if err := svc.RegisterUser(cmd.Context(), u); err != nil {
			switch {
			case errors.Is(err, auth.ErrUsernameExists):
				return fmt.Errorf("username %q is taken", u.Username)
			case errors.Is(err, auth.ErrEmailExists):
				return fmt.Errorf("email %q is already registered", u.Email)
			}
			return err
		}
		logging.Info().Int("id", u.ID).Str("user", u.Username).Msg("user created")
		fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s\n", u.ID, u.Username)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "username", "", "Username (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password, at least 8 characters (required)")
	userCreateCmd.Flags().StringVar(&userFirst, "first-name", "", "First name")
	userCreateCmd.Flags().StringVar(&userLast, "last-name", "", "Last name")
	for _, f := range []string{"username", "email", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
