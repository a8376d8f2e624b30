package main

import (
	"fmt"
	"io"

	"farmer-market-web/internal/account"
	"farmer-market-web/internal/form"
	"farmer-market-web/internal/route"
	"farmer-market-web/internal/session"

	"github.com/spf13/cobra"
)

func (c *cli) navCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Resolve a client path against the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := route.ResolveSession(cmd.Context(), args[0], c.app.Session, c.app.Store)
			return c.print(cmd.OutOrStdout(), d, func(w io.Writer) {
				switch d.Outcome {
				case route.Redirect:
					fmt.Fprintf(w, "redirect %s\n", d.To)
				case route.NotFound:
					fmt.Fprintln(w, "not found")
				default:
					fmt.Fprintf(w, "render %s\n", d.Page)
				}
			})
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.Session.Snapshot()
			view := s
			view.Token = ""
			return c.print(cmd.OutOrStdout(), view, func(w io.Writer) {
				if !s.Authenticated() {
					fmt.Fprintln(w, "not signed in")
					return
				}
				fmt.Fprintf(w, "%s (%s) %s\n", s.UserName, roleOf(s), s.Phone)
			})
		},
	}
}

func (c *cli) signinCmd() *cobra.Command {
	var in form.SignIn
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with phone number and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Account.SignIn(cmd.Context(), in)
			if perr := c.printResult(cmd.OutOrStdout(), res); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "11 digit phone number")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Account.Logout(cmd.Context())
			if err != nil {
				return err
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) printResult(w io.Writer, res account.Result) error {
	return c.print(w, res, func(w io.Writer) {
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
		}
		for field, msg := range res.FieldErrors {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
		if res.Next != "" {
			fmt.Fprintf(w, "next: %s\n", res.Next)
		}
	})
}

// roleOf is the role shown by whoami when the session has none.
func roleOf(s session.Snapshot) session.Role {
	if s.Role == session.RoleNone {
		return "guest"
	}
	return s.Role
}
