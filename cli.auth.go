package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type credentialsFlags struct {
	email         string
	password      string
	passwordStdin bool
}

func (f *credentialsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

// form collects the credentials from the flags, stdin or the prompts.
func (f *credentialsFlags) form(c *CLI) (CredentialsForm, error) {
	form := CredentialsForm{Email: f.email, Password: f.password}
	var err error
	if strings.TrimSpace(form.Email) == "" {
		if form.Email, err = c.readLine("Email: "); err != nil {
			return form, fmt.Errorf("failed to read email: %w", err)
		}
	}
	if form.Password == "" {
		if f.passwordStdin {
			form.Password, err = c.readLine("")
		} else {
			form.Password, err = c.readPassword("Password: ")
		}
		if err != nil {
			return form, fmt.Errorf("failed to read password: %w", err)
		}
	}
	return form, nil
}

func newLoginCommand(c *CLI) *cobra.Command {
	var flags credentialsFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(c)
			if err != nil {
				return err
			}
			if err := SubmitLogin(cmd.Context(), c.app.session, c.app.notifier, form); err != nil {
				return err
			}
			return RenderProfile(cmd.OutOrStdout(), c.app.session.User())
		},
	}
	flags.register(cmd)
	return cmd
}

func newRegisterCommand(c *CLI) *cobra.Command {
	var flags credentialsFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account then log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(c)
			if err != nil {
				return err
			}
			if err := SubmitRegister(cmd.Context(), c.app.session, c.app.notifier, form); err != nil {
				return err
			}
			return RenderProfile(cmd.OutOrStdout(), c.app.session.User())
		},
	}
	flags.register(cmd)
	return cmd
}

func newLogoutCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			c.app.notifier.Info("", "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := c.app.session
			if session.IsAuthenticated() && session.User() == nil {
				// the boot refresh failed without ending the session.
				if err := session.RefreshProfile(cmd.Context()); err != nil {
					return err
				}
			}
			return RenderProfile(cmd.OutOrStdout(), session.User())
		},
	}
}
