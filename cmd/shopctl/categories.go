package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/form"
	"github.com/gooddeal/storefront/pkg/listing"
)

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Browse and administer categories"}
	cmd.AddCommand(
		a.categoriesListCmd(),
		a.categoryActionCmd("delete", "Soft-delete a category (admin)", (*client.Client).DeleteCategory),
		a.categoryActionCmd("restore", "Restore a deleted category (admin)", (*client.Client).RestoreCategory),
	)
	return cmd
}

func (a *app) categoriesListCmd() *cobra.Command {
	f := listing.Filter{SortBy: "name", Order: listing.OrderAsc, Limit: listing.DefaultLimit, Page: 1}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories; admins also see deleted ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetch := a.client.ActiveCategories
			if a.client.Session().IsAdmin() {
				fetch = a.client.Categories
			}
			page, err := listing.NewList[client.Category](f, fetch).Load(cmd.Context())
			if err != nil {
				return errorText(err)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tPARENT\tDELETED")
			for _, c := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.CategoryID, c.IsDeleted)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			footer(cmd.OutOrStdout(), page.Pagination)
			return nil
		},
	}
	listFlags(cmd, &f)
	return cmd
}

// categoryActionCmd builds a confirmed admin action on one category. action
// is a method expression so it binds to the client created at run time.
func (a *app) categoryActionCmd(name, short string, action func(*client.Client, context.Context, string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " CATEGORY_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			f := form.NewConfirmAction(func(ctx context.Context, _ form.Values) (string, error) {
				return action(a.client, ctx, id)
			})
			return a.runForm(cmd, f, fmt.Sprintf("Really %s category %s?", name, id))
		},
	}
}
