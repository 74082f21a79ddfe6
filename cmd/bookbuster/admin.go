package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookbuster/internal/penalties"
	"bookbuster/internal/views"
)

const seedMarker = "bb_seed_done_v1"

func newSeedCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures into the backend (one-shot)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if app.store.Marker(seedMarker) {
				fmt.Fprintln(cmd.OutOrStdout(), "Datos de desarrollo ya cargados")
				return nil
			}
			created, err := app.client.DevSeed(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.store.SetMarker(seedMarker); err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Datos de desarrollo cargados")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "El backend ya tenía datos")
			}
			return nil
		},
	}
}

func newPenaltiesCmd(a **app) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "penalties",
		Short: "Manage fines (operators only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			v := views.NewPenaltiesView(app.client)
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}

			fines := v.Penalties()
			if pendingOnly {
				fines = v.Pending()
			}
			out := cmd.OutOrStdout()
			for _, p := range fines {
				who := p.SocioID
				if p.Socio != nil && p.Socio.Nombre != nil {
					who = *p.Socio.Nombre
				}
				fmt.Fprintf(out, "%s  %-25s $%.2f  %s  [%s]\n", p.ID, who, p.Monto, p.Motivo, p.Estado)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "show only unpaid fines")

	var detalle string
	add := &cobra.Command{
		Use:   "add <socio-query> <tipo>",
		Short: "Levy a fine; the amount follows the type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			if _, ok := penalties.TypeByCode(args[1]); !ok {
				codes := ""
				for i, t := range penalties.Types() {
					if i > 0 {
						codes += ", "
					}
					codes += t.Code
				}
				return fmt.Errorf("tipo desconocido %q (valores: %s)", args[1], codes)
			}

			v := views.NewPenaltiesView(app.client)
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			id, err := v.Create(cmd.Context(), args[0], args[1], detalle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Multa %s aplicada\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&detalle, "detalle", "", "free-form note")

	pay := &cobra.Command{
		Use:   "pay <penalty-id>",
		Short: "Mark a fine as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			v := views.NewPenaltiesView(app.client)
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := v.MarkPaid(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Multa pagada")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <penalty-id>",
		Short: "Delete a fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			v := views.NewPenaltiesView(app.client)
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := v.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Multa eliminada")
			return nil
		},
	}

	cmd.AddCommand(add, pay, rm)
	return cmd
}

func newRequestsCmd(a **app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage registration requests (operators only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}

			v := views.NewRequestsView(app.client)
			if err := v.Refresh(cmd.Context()); err != nil {
				return err
			}
			list := v.Pending()
			if all {
				list = v.Requests()
			}
			out := cmd.OutOrStdout()
			for _, r := range list {
				fmt.Fprintf(out, "%s  %-25s <%s>  [%s]\n", r.ID, r.Nombre, r.Email, r.Estado)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include decided requests")

	approve := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a request, creating the member account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			v := views.NewRequestsView(app.client)
			if err := v.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Solicitud aprobada")
			return nil
		},
	}

	var motivo string
	reject := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a request with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			if err := app.requireElevated(); err != nil {
				return err
			}
			v := views.NewRequestsView(app.client)
			if err := v.Reject(cmd.Context(), args[0], motivo); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Solicitud rechazada")
			return nil
		},
	}
	reject.Flags().StringVar(&motivo, "motivo", "", "reason shown to the applicant (min 4 characters)")
	reject.MarkFlagRequired("motivo")

	cmd.AddCommand(approve, reject)
	return cmd
}
