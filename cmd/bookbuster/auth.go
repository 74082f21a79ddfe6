package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoginCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Start a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a

			email := ""
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				email, err = app.prompt.Line("Email")
				if err != nil {
					return err
				}
			}
			password, err := app.prompt.Password("Contraseña")
			if err != nil {
				return err
			}

			user, err := app.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			app.log.Info("logged in", zap.String("email", user.Email), zap.String("rol", user.Rol))
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s (%s)\n", user.Nombre, user.Rol)
			return nil
		},
	}
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func newRegisterCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a member account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a

			nombre, err := app.prompt.Line("Nombre")
			if err != nil {
				return err
			}
			email, err := app.prompt.Line("Email")
			if err != nil {
				return err
			}
			password, err := app.prompt.Password("Contraseña")
			if err != nil {
				return err
			}

			message, err := app.client.Register(cmd.Context(), nombre, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}

func newWhoamiCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := (*a).client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> - %s\n", user.Nombre, user.Email, user.Rol)
			return nil
		},
	}
}
