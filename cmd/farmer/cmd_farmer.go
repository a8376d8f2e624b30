package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"farmer-market-web/internal/delivery"
	"farmer-market-web/internal/produce"
	"farmer-market-web/internal/route"
	"farmer-market-web/internal/session"
	"farmer-market-web/internal/trackorder"

	"github.com/spf13/cobra"
)

var errNotFarmer = errors.New("sign in as a farmer first")

// requireFarmer applies the same guard as the farmer dashboard.
func (c *cli) requireFarmer(*cobra.Command, []string) error {
	d := route.Protected([]session.Role{session.RoleFarmer}, c.app.Session.Snapshot(), route.DashboardFor(session.RoleFarmer))
	if d.Outcome != route.Render {
		return errNotFarmer
	}
	return nil
}

func (c *cli) produceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Manage produce listings",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List produce listings, newest first",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.app.Produce.List(cmd.Context())
			return c.print(cmd.OutOrStdout(), items, func(w io.Writer) { writeListings(w, items) })
		},
	}

	var in produce.Input
	var draft bool
	add := &cobra.Command{
		Use:     "add",
		Short:   "Publish a listing or save it as a draft",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action := produce.ActionPublish
			if draft {
				action = produce.ActionDraft
			}
			l, err := c.app.Produce.Submit(cmd.Context(), action, "", in)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), l, func(w io.Writer) {
				fmt.Fprintln(w, action.ResultMessage())
				fmt.Fprintf(w, "id: %s\n", l.ID)
			})
		},
	}
	f := add.Flags()
	f.StringVar(&in.Name, "name", "", "produce name")
	f.StringVar(&in.Category, "category", "", "category")
	f.Float64Var(&in.Quantity, "quantity", 0, "quantity")
	f.Float64Var(&in.Price, "price", 0, "price per unit")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.AvailableDate, "available", "", "available date, YYYY-MM-DD")
	f.StringVar(&in.StartDate, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&in.FarmLocation, "location", "", "farm location")
	f.BoolVar(&draft, "draft", false, "save as draft instead of publishing")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a listing",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := c.app.Produce.Delete(cmd.Context(), args[0])
			return c.print(cmd.OutOrStdout(), items, func(w io.Writer) { writeListings(w, items) })
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func writeListings(w io.Writer, items []produce.Listing) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no listings")
		return
	}
	for _, l := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g @ %g\n", l.ID, l.Status, l.Name, l.Quantity, l.Price)
	}
}

func (c *cli) deliveriesCmd() *cobra.Command {
	filter := delivery.DefaultFilter()
	var rng string

	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "Query, cycle and export deliveries",
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&filter.Search, "search", "", "match shipment id or recipient")
	pf.StringVar(&filter.Status, "status", filter.Status, "status or All")
	pf.StringVar(&filter.Recipient, "recipient", filter.Recipient, "recipient or All")
	pf.StringVar(&rng, "range", string(filter.Range), "days back: 7, 30 or All")

	var page int
	list := &cobra.Command{
		Use:     "list",
		Short:   "Show one page of deliveries",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Range = delivery.Range(rng)
			v := c.app.Deliveries.Query(cmd.Context(), filter, page)
			return c.print(cmd.OutOrStdout(), v, func(w io.Writer) {
				for _, d := range v.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Status, d.Recipient, strings.Join(d.ProduceSummary, ", "))
				}
				fmt.Fprintf(w, "page %d/%d, %d total, %d delayed\n", v.Page.Page, v.TotalPages, v.Total, v.DelayedCount)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")

	cycle := &cobra.Command{
		Use:     "cycle <id>",
		Short:   "Advance a delivery to its next status",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Deliveries.CycleStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), d, func(w io.Writer) {
				fmt.Fprintf(w, "%s is now %s\n", d.ID, d.Status)
			})
		},
	}

	var format, out string
	export := &cobra.Command{
		Use:     "export",
		Short:   "Export the filtered deliveries as csv or xlsx",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Range = delivery.Range(rng)
			rows := c.app.Deliveries.Filtered(cmd.Context(), filter)
			if out == "" {
				out = delivery.ExportFileName(time.Now(), format)
			}
			return exportDeliveries(cmd.OutOrStdout(), out, format, rows)
		},
	}
	export.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	export.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to the dated export name")

	cmd.AddCommand(list, cycle, export)
	return cmd
}

func exportDeliveries(w io.Writer, path, format string, rows []delivery.Delivery) (err error) {
	write := delivery.WriteCSV
	switch format {
	case "csv":
	case "xlsx":
		write = delivery.WriteXLSX
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := write(f, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "exported %d deliveries to %s\n", len(rows), path)
	return nil
}

func (c *cli) ordersCmd() *cobra.Command {
	var filter trackorder.Filter
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Track buyer orders",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List orders",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.app.TrackOrders.List(cmd.Context(), filter)
			return c.print(cmd.OutOrStdout(), items, func(w io.Writer) { writeOrders(w, items) })
		},
	}
	list.Flags().StringVar(&filter.Search, "search", "", "match produce or buyer")
	list.Flags().StringVar(&filter.Status, "status", "", "status filter")

	del := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete an order",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := c.app.TrackOrders.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), items, func(w io.Writer) { writeOrders(w, items) })
		},
	}

	clearAll := &cobra.Command{
		Use:     "clear",
		Short:   "Delete every order",
		Args:    cobra.NoArgs,
		PreRunE: c.requireFarmer,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.TrackOrders.ClearAll(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "all orders cleared")
			return nil
		},
	}

	cmd.AddCommand(list, del, clearAll)
	return cmd
}

func writeOrders(w io.Writer, items []trackorder.Order) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no orders")
		return
	}
	for _, o := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g %s\n", o.ID, o.Status, o.Produce, o.Buyer, o.Quantity, o.Unit)
	}
}

func (c *cli) systemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "system",
		Short: "Show platform metrics and recent logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.System.Snapshot(cmd.Context())
			return c.print(cmd.OutOrStdout(), s, func(w io.Writer) {
				m := s.Metrics
				fmt.Fprintf(w, "users %d, farmers %d, buyers %d, orders today %d", m.TotalUsers, m.ActiveFarmers, m.ActiveBuyers, m.OrdersToday)
				if s.Simulated {
					fmt.Fprint(w, " (simulated)")
				}
				fmt.Fprintln(w)
				for _, l := range s.Logs {
					fmt.Fprintln(w, l)
				}
			})
		},
	}
}
