package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookbuster/internal/api"
	"bookbuster/internal/views"
)

func newBookAddCmd(a **app) *cobra.Command {
	var (
		autores     string
		generos     string
		descripcion string
		idioma      string
		fecha       string
	)

	cmd := &cobra.Command{
		Use:   "add <titulo>",
		Short: "Create a book (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			form := views.NewBookForm()
			form.Titulo = args[0]
			form.Descripcion = descripcion
			form.Idioma = idioma
			form.FechaPublicacion = fecha
			form.Autores.Add(autores)
			form.Generos.Add(generos)

			v := views.NewBooksView(app.client, app.bus)
			defer v.Close()
			id, err := v.Create(cmd.Context(), *form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Libro %s creado\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&autores, "autores", "", "comma-separated author names")
	cmd.Flags().StringVar(&generos, "generos", "", "comma-separated genre names")
	cmd.Flags().StringVar(&descripcion, "descripcion", "", "description")
	cmd.Flags().StringVar(&idioma, "idioma", "", "language")
	cmd.Flags().StringVar(&fecha, "fecha", "", "publication date YYYY-MM-DD")
	return cmd
}

func newBookEditCmd(a **app) *cobra.Command {
	var (
		titulo      string
		descripcion string
		idioma      string
		fecha       string
	)

	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Update a book (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			var p api.UpdateBookParams
			if cmd.Flags().Changed("titulo") {
				p.Titulo = &titulo
			}
			if cmd.Flags().Changed("descripcion") {
				p.Descripcion = &descripcion
			}
			if cmd.Flags().Changed("idioma") {
				p.Idioma = &idioma
			}
			if cmd.Flags().Changed("fecha") {
				p.FechaPublicacion = &fecha
			}

			v := views.NewDetailView(app.client, app.bus, args[0], true)
			defer v.Close()
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := v.Edit(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Libro actualizado")
			return nil
		},
	}
	cmd.Flags().StringVar(&titulo, "titulo", "", "new title")
	cmd.Flags().StringVar(&descripcion, "descripcion", "", "new description")
	cmd.Flags().StringVar(&idioma, "idioma", "", "new language")
	cmd.Flags().StringVar(&fecha, "fecha", "", "new publication date YYYY-MM-DD")
	return cmd
}

func newEditorialsCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editorials",
		Short: "List the publisher directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eds, err := (*a).client.Editorials(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range eds {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.ID, e.Nombre)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <nombre>",
		Short: "Register a publisher (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			id, err := app.client.CreateEditorial(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Editorial %s creada\n", id)
			return nil
		},
	}
	cmd.AddCommand(add)
	return cmd
}

func newCopiesCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copies <book-id>",
		Short: "List a book's copies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			copies, err := (*a).client.CopiesByBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range copies {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s [%s]\n", c.ID, c.Formato, c.Estado)
			}
			return nil
		},
	}

	var (
		isbn    string
		edicion string
	)
	add := &cobra.Command{
		Use:   "add <book-id> <editorial-id> <formato>",
		Short: "Register a copy (operators only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			p := api.CreateCopyParams{
				LibroID:     args[0],
				EditorialID: args[1],
				Formato:     args[2],
			}
			if isbn != "" {
				p.ISBN = &isbn
			}
			if edicion != "" {
				p.Edicion = &edicion
			}
			id, err := app.client.CreateCopy(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copia %s creada\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	add.Flags().StringVar(&edicion, "edicion", "", "edition label")

	rm := &cobra.Command{
		Use:   "rm <copy-id>",
		Short: "Delete a copy (operators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			if err := app.client.DeleteCopy(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Copia eliminada")
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}
