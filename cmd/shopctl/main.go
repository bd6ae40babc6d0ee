// Command shopctl drives the storefront API from a terminal: signing in,
// browsing orders and carts, and the admin category actions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/logger"
)

type app struct {
	apiURL      string
	sessionPath string
	yes         bool
	verbose     bool

	client *client.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Command line client for the GoodDeal storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if a.verbose {
				level = "debug"
			}
			log := logger.Init(logger.Options{Level: level, Pretty: true, Service: "shopctl", Output: cmd.ErrOrStderr()})

			st, err := loadSession(a.sessionPath)
			if err != nil {
				return err
			}
			log.Debug().Str("api", a.apiURL).Str("session", a.sessionPath).Bool("signedIn", st.UserID != "").Msg("starting")
			a.client = client.New(a.apiURL, client.NewSession(st))
			return nil
		},
	}

	defaultURL := os.Getenv("SHOPCTL_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", defaultURL, "storefront API base URL")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", defaultSessionPath(), "session file")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.signupCmd(),
		a.signinCmd(),
		a.signoutCmd(),
		a.menuCmd(),
		a.ordersCmd(),
		a.cartCmd(),
		a.categoriesCmd(),
	)
	return root
}

// persist writes the client's session back to disk after a call that may
// have changed it.
func (a *app) persist() error {
	return saveSession(a.sessionPath, a.client.Session().State())
}
