package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"bookbuster/internal/circulation"
	"bookbuster/internal/session"
	"bookbuster/internal/views"
)

func newLoansCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List your own loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			v := views.NewMyLoansView(app.client, app.bus)
			defer v.Close()
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			printLoans(cmd, v.Loans())
			return nil
		},
	}
}

func printLoans(cmd *cobra.Command, loans []circulation.Loan) {
	out := cmd.OutOrStdout()
	if len(loans) == 0 {
		fmt.Fprintln(out, "Sin préstamos")
		return
	}
	for _, l := range loans {
		title := l.LibroID
		if l.BookTitle != nil {
			title = *l.BookTitle
		}
		fmt.Fprintf(out, "%s  %-30s vence %s  [%s]\n", l.ID, title, l.FechaVencimiento, l.Estado)
	}
}

func newDashboardCmd(a **app) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your profile, socio record and loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a

			render := func() error {
				v := views.NewDashboardView(app.client)
				if err := v.Refresh(cmd.Context()); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				user := v.User()
				fmt.Fprintf(out, "%s <%s> - %s\n", user.Nombre, user.Email, user.Rol)
				if socio := v.Socio(); socio.DNI != nil {
					fmt.Fprintf(out, "DNI %s\n", *socio.DNI)
				}
				fmt.Fprintln(out)
				printLoans(cmd, v.Loans())
				if fines := v.Penalties(); len(fines) > 0 {
					fmt.Fprintln(out)
					for _, p := range fines {
						fmt.Fprintf(out, "Multa $%.2f  %s  [%s]\n", p.Monto, p.Motivo, p.Estado)
					}
				}
				return nil
			}
			if err := render(); err != nil {
				return err
			}
			if !follow {
				return nil
			}

			// Re-render whenever another terminal changes the session
			// file, until interrupted.
			fs, ok := app.store.(*session.FileStore)
			if !ok {
				return fmt.Errorf("--follow requires the file-backed session store")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			changes := make(chan struct{}, 1)
			if err := fs.Watch(ctx, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			}); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changes:
					if _, ok := app.store.Get(); !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada en otra terminal")
						return nil
					}
					if err := render(); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep rendering as the session changes")
	return cmd
}

func newReturnsCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "returns <socio-query>",
		Short: "List a socio's active loans (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			desk := views.NewReturnView(app.client, app.bus)
			if err := desk.Refresh(cmd.Context()); err != nil {
				return err
			}
			socio, err := desk.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Socio: %s <%s>\n\n", socio.Nombre, socio.Email)
			printLoans(cmd, desk.Loans())
			return nil
		},
	}
}

func newReturnCmd(a **app) *cobra.Command {
	var penalty bool

	cmd := &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Close a loan (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			desk := views.NewReturnView(app.client, app.bus)
			returned, err := desk.Return(cmd.Context(), args[0], penalty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Préstamo %s devuelto [%s]\n", returned.ID, returned.Estado)
			return nil
		},
	}
	cmd.Flags().BoolVar(&penalty, "penalty", false, "levy a late fee if the loan is overdue")
	return cmd
}
