package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/form"
	"github.com/gooddeal/storefront/pkg/logger"
)

var errAborted = errors.New("aborted")

// runForm submits f and, when it asks for confirmation, prompts unless --yes
// was given. A failure comes back as the banner text.
func (a *app) runForm(cmd *cobra.Command, f *form.Form, question string) error {
	ctx := cmd.Context()
	err := f.Submit(ctx)
	if errors.Is(err, form.ErrInvalid) {
		return fmt.Errorf("invalid fields: %s", strings.Join(f.Invalid(), ", "))
	}
	if err == nil && f.State() == form.StateConfirming {
		err = a.confirm(ctx, cmd, f, question)
	}
	if errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		log := logger.Get()
		log.Debug().Err(err).Msg("submit failed")
		return errors.New(form.MessageOf(err))
	}
	if msg := f.Notice().Current(); msg.Text != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg.Text)
	}
	return nil
}

func (a *app) confirm(ctx context.Context, cmd *cobra.Command, f *form.Form, question string) error {
	if !a.yes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			f.Cancel()
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return errAborted
		}
	}
	return f.Confirm(ctx)
}

// setAll copies flag values into the form's fields.
func setAll(f *form.Form, values map[string]string) error {
	for k, v := range values {
		if err := f.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
