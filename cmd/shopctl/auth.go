package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gooddeal/storefront/pkg/client"
	"github.com/gooddeal/storefront/pkg/form"
)

func (a *app) signupCmd() *cobra.Command {
	var firstname, lastname, username, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with an email address or a phone number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := form.NewSignupForm(func(ctx context.Context, v form.Values) (string, error) {
				email, phone := form.Identity(v.Get(form.FieldUsername))
				return a.client.Signup(ctx, client.SignupInput{
					Firstname: v.Get(form.FieldFirstname),
					Lastname:  v.Get(form.FieldLastname),
					Email:     email,
					Phone:     phone,
					Password:  v.Get(form.FieldPassword),
				})
			})
			if err := setAll(f, map[string]string{
				form.FieldFirstname: firstname,
				form.FieldLastname:  lastname,
				form.FieldUsername:  username,
				form.FieldPassword:  password,
			}); err != nil {
				return err
			}
			return a.runForm(cmd, f, "Create account for "+username+"?")
		},
	}
	cmd.Flags().StringVar(&firstname, "firstname", "", "first name")
	cmd.Flags().StringVar(&lastname, "lastname", "", "last name")
	cmd.Flags().StringVarP(&username, "username", "u", "", "email or phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func (a *app) signinCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := form.NewSigninForm(func(ctx context.Context, v form.Values) (string, error) {
				email, phone := form.Identity(v.Get(form.FieldUsername))
				return a.client.Signin(ctx, email, phone, v.Get(form.FieldPassword))
			})
			if err := setAll(f, map[string]string{form.FieldUsername: username, form.FieldPassword: password}); err != nil {
				return err
			}
			if err := a.runForm(cmd, f, ""); err != nil {
				return err
			}
			return a.persist()
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "email or phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func (a *app) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the refresh token and forget the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := a.client.Signout(cmd.Context())
			if perr := a.persist(); perr != nil {
				return perr
			}
			if err != nil {
				return errorText(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func (a *app) menuCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the account navigation for the signed-in role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.Menu(cmd.Context(), path)
			if err != nil {
				return errorText(err)
			}
			for _, it := range items {
				marker := " "
				if it.Active {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-18s %s\n", marker, it.Label, it.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "current path, marks the matching entry")
	return cmd
}
