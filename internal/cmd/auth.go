package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

// LoginCmd returns the `gastroflow login` command.
func LoginCmd(envFn EnvFunc) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()

			if email == "" {
				if email, err = env.promptDefault("email: ", env.Config.Email); err != nil {
					return err
				}
			}
			password, err := env.promptSecret("password: ")
			if err != nil {
				return err
			}

			input := api.LoginInput{Email: email, Password: password}
			if err := input.Validate(); err != nil {
				return err
			}
			// The token store may key on the email, so record it first.
			env.Config.Email = input.Email
			user, err := env.Client.SignIn(input)
			if err != nil {
				if api.IsUnauthorized(err) {
					return fmt.Errorf("login failed: wrong email or password")
				}
				return fmt.Errorf("login failed: %w", err)
			}

			name := input.Email
			if user != nil && user.DisplayName() != "" {
				name = user.DisplayName()
			}
			env.Config.UserName = name
			if err := env.Config.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(env.Out, "logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

// RegisterCmd returns the `gastroflow register` command.
func RegisterCmd(envFn EnvFunc) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()

			if name == "" {
				if name, err = env.prompt("name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = env.prompt("email: "); err != nil {
					return err
				}
			}
			password, err := env.promptSecret("password: ")
			if err != nil {
				return err
			}
			confirm, err := env.promptSecret("confirm password: ")
			if err != nil {
				return err
			}

			input := api.RegisterInput{Name: name, Email: email, Password: password, Confirm: confirm}
			if _, err := env.Client.Register(input); err != nil {
				if api.IsConflict(err) {
					return fmt.Errorf("register: %s is already registered", input.Email)
				}
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(env.Out, "account created for %s\n", input.Email)
			fmt.Fprintln(env.Out, "run 'gastroflow login' to sign in")
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

// LogoutCmd returns the `gastroflow logout` command.
func LogoutCmd(envFn EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()

			if !env.Session.LoggedIn() {
				fmt.Fprintln(env.Out, "not logged in")
				return nil
			}
			if err := env.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(env.Out, "logged out")
			return nil
		},
	}
}

// WhoamiCmd returns the `gastroflow whoami` command.
func WhoamiCmd(envFn EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.requireLogin(); err != nil {
				return err
			}
			user, err := env.Client.CurrentUser()
			if err != nil {
				if api.IsUnauthorized(err) {
					return fmt.Errorf("session expired; run 'gastroflow login'")
				}
				return fmt.Errorf("whoami: %w", err)
			}
			fmt.Fprintf(env.Out, "name:  %s\n", user.Name)
			fmt.Fprintf(env.Out, "email: %s\n", user.Email)
			if user.Role != "" {
				fmt.Fprintf(env.Out, "role:  %s\n", user.Role)
			}
			if u := env.Session.User(); u != nil && !u.ExpiresAt.IsZero() {
				fmt.Fprintf(env.Out, "token expires: %s\n", u.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
