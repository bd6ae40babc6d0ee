package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/form"
	"github.com/gooddeal/storefront/pkg/listing"
	"github.com/gooddeal/storefront/pkg/money"
)

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "The open shopping cart"}
	cmd.AddCommand(a.cartListCmd(), a.cartUpdateCmd(), a.cartRemoveCmd())
	return cmd
}

func (a *app) cartListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the items and totals of the open cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			carts, err := listing.NewList[client.Cart](listing.Filter{Limit: 1, Page: 1}, a.client.Carts).Load(ctx)
			if err != nil {
				return errorText(err)
			}
			if len(carts.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cart is empty")
				return nil
			}

			contents, err := a.client.CartItems(ctx, carts.Items[0].ID)
			if err != nil {
				return errorText(err)
			}
			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ITEM\tPRODUCT\tCOUNT\tPRICE")
			for _, it := range contents.Items {
				name, price := it.ProductID, "-"
				if it.Product != nil {
					name, price = it.Product.Name, money.Label(it.Product.PromotionalPrice)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", it.ID, name, it.Count, price)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d units, total %s (list %s)\n", contents.Totals.Amount,
				money.Label(contents.Totals.TotalPromotionalPrice), money.Label(contents.Totals.TotalPrice))
			return nil
		},
	}
}

func (a *app) cartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update ITEM_ID COUNT",
		Short: "Change the count of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil || !form.Number(form.NumPositive, args[1]) {
				return fmt.Errorf("count must be a positive number, got %q", args[1])
			}
			item, err := a.client.UpdateCartItem(cmd.Context(), args[0], count)
			if err != nil {
				return errorText(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d\n", item.ID, item.Count)
			return nil
		},
	}
}

func (a *app) cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID := args[0]
			f := form.NewConfirmAction(func(ctx context.Context, _ form.Values) (string, error) {
				return a.client.RemoveCartItem(ctx, itemID)
			})
			return a.runForm(cmd, f, "Remove "+itemID+" from the cart?")
		},
	}
}
