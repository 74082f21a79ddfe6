package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookbuster/internal/circulation"
	"bookbuster/internal/views"
)

func newBooksCmd(a **app) *cobra.Command {
	var genre string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			v := views.NewBooksView(app.client, app.bus)
			defer v.Close()

			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			v.SetGenre(genre)

			out := cmd.OutOrStdout()
			for _, b := range v.Books() {
				authors := ""
				for i, au := range b.Autores {
					if i > 0 {
						authors += ", "
					}
					authors += au.Nombre
				}
				fmt.Fprintf(out, "%s  %s - %s\n", b.ID, b.Titulo, authors)
			}
			if genre == "" {
				fmt.Fprintf(out, "\nGéneros: %v\n", v.Genres())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "show only books with this genre")
	cmd.AddCommand(newBookAddCmd(a))
	return cmd
}

func newBookCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book <book-id>",
		Short: "Show one book with its copies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			user, _ := app.currentUser()

			v := views.NewDetailView(app.client, app.bus, args[0], user.Elevated())
			defer v.Close()
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			book := v.Book()
			fmt.Fprintf(out, "%s\n", book.Titulo)
			if book.Descripcion != nil {
				fmt.Fprintf(out, "%s\n", *book.Descripcion)
			}
			fmt.Fprintln(out)
			for _, fc := range v.FormatCounts() {
				fmt.Fprintf(out, "  %-10s %d/%d disponibles\n", fc.Formato, fc.Available, fc.Total)
			}
			fmt.Fprintln(out)
			for _, c := range v.AvailableCopies() {
				fmt.Fprintf(out, "  %s  %s\n", c.ID, c.Formato)
			}
			return nil
		},
	}
	cmd.AddCommand(newBookEditCmd(a))
	return cmd
}

func newRentCmd(a **app) *cobra.Command {
	var (
		due   string
		socio string
	)

	cmd := &cobra.Command{
		Use:   "rent <book-id> <copy-id>",
		Short: "Open a loan on an available copy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			user, _ := app.currentUser()

			if socio != "" {
				if err := app.requireElevated(); err != nil {
					return err
				}
			}
			if due == "" {
				due = circulation.DefaultDueDate(time.Now())
			}

			v := views.NewDetailView(app.client, app.bus, args[0], user.Elevated())
			defer v.Close()
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}

			loan, err := v.Rent(cmd.Context(), args[1], due, socio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Préstamo %s abierto, vence %s\n", loan.ID, loan.FechaVencimiento)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (default: 14 days out)")
	cmd.Flags().StringVar(&socio, "socio", "", "rent on behalf of the socio matching this query (operators only)")
	return cmd
}
