package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/form"
	"github.com/gooddeal/storefront/pkg/listing"
	"github.com/gooddeal/storefront/pkg/logger"
)

// errorText turns a call failure into the text a user should see.
func errorText(err error) error {
	if errors.Is(err, client.ErrNotSignedIn) {
		return errors.New("not signed in, run shopctl signin first")
	}
	log := logger.Get()
	log.Debug().Err(err).Msg("request failed")
	return errors.New(form.MessageOf(err))
}

// listFlags binds the shared list query flags to f.
func listFlags(cmd *cobra.Command, f *listing.Filter) {
	cmd.Flags().StringVar(&f.Search, "search", f.Search, "search text")
	cmd.Flags().StringVar(&f.SortBy, "sort", f.SortBy, "sort field")
	cmd.Flags().StringVar(&f.Order, "order", f.Order, "asc or desc")
	cmd.Flags().IntVar(&f.Limit, "limit", f.Limit, "rows per page")
	cmd.Flags().IntVar(&f.Page, "page", f.Page, "page number")
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func footer(w io.Writer, p listing.Pagination) {
	fmt.Fprintf(w, "page %d of %d, %d total\n", p.PageCurrent, p.PageCount, p.Size)
}
