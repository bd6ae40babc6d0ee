package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/form"
	"github.com/gooddeal/storefront/pkg/listing"
	"github.com/gooddeal/storefront/pkg/money"
)

var statusLabels = map[string]string{
	client.StatusPending:    "Not processed",
	client.StatusProcessing: "Processing",
	client.StatusShipped:    "Shipped",
	client.StatusDelivered:  "Delivered",
	client.StatusCancelled:  "Cancelled",
}

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Order history"}
	cmd.AddCommand(a.ordersListCmd(), a.ordersCancelCmd())
	return cmd
}

func (a *app) ordersListCmd() *cobra.Command {
	f := listing.Filter{SortBy: "createdAt", Order: listing.OrderDesc, Limit: listing.DefaultLimit, Page: 1}
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your orders, or every order with --all as an admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetch := a.client.Orders
			if all {
				fetch = a.client.AdminOrders
			}
			page, err := listing.NewList[client.Order](f, fetch).Load(cmd.Context())
			if err != nil {
				return errorText(err)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tCREATED")
			for _, o := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.ID, statusLabels[o.Status],
					money.Label(o.TotalPromotionalPrice), o.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			footer(cmd.OutOrStdout(), page.Pagination)
			return nil
		},
	}
	listFlags(cmd, &f)
	cmd.Flags().StringVar(&f.Status, "status", "", "status code 0-4")
	cmd.Flags().BoolVar(&all, "all", false, "all users' orders (admin)")
	return cmd
}

func (a *app) ordersCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel a pending order placed within the cancel window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID := args[0]
			o, err := a.client.Order(cmd.Context(), orderID)
			if err != nil {
				return errorText(err)
			}
			if !o.CanCancel(time.Now(), client.DefaultCancelWindow) {
				return fmt.Errorf("order %s can no longer be cancelled", orderID)
			}
			f := form.NewConfirmAction(func(ctx context.Context, _ form.Values) (string, error) {
				if _, err := a.client.CancelOrder(ctx, orderID); err != nil {
					return "", err
				}
				return "Order " + orderID + " cancelled", nil
			})
			return a.runForm(cmd, f, "Cancel order "+orderID+"?")
		},
	}
}
