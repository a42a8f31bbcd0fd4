// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wneessen/rentalhub/internal/api"
	"github.com/wneessen/rentalhub/internal/ui"
)

func (c *cli) loginCmd() *cobra.Command {
	var credentials api.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the marketplace",
		Long:  "Log in with email and password. The password is read from stdin if not given as flag.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if credentials.Password == "" {
				password, err := readSecret(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				credentials.Password = password
			}
			user, err := c.app.session.Login(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name(), user.UserType)
			return err
		},
	}
	cmd.Flags().StringVar(&credentials.Email, "email", "", "email address of the account")
	cmd.Flags().StringVar(&credentials.Password, "password", "", "password of the account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.session.Logout(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var (
		registration api.Registration
		userType     string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new owner or tenant account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registration.UserType = api.UserType(strings.ToLower(userType))
			if registration.Password == "" {
				password, err := readSecret(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				registration.Password = password
			}
			user, err := c.app.session.Register(cmd.Context(), registration)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Welcome %s, your %s account has been created\n",
				user.Name(), user.UserType)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&registration.Email, "email", "", "email address")
	flags.StringVar(&registration.Password, "password", "", "password (at least 8 characters, upper and lower case and a number)")
	flags.StringVar(&registration.FirstName, "first-name", "", "first name")
	flags.StringVar(&registration.LastName, "last-name", "", "last name")
	flags.StringVar(&registration.PhoneNumber, "phone", "", "phone number")
	flags.StringVar(&userType, "type", string(api.UserTypeTenant), "account type: owner or tenant")
	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.requireLogin()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Name:  %s\n", user.Name())
			fmt.Fprintf(w, "Email: %s\n", user.Email)
			fmt.Fprintf(w, "Type:  %s\n", user.UserType)
			if exp, ok := c.app.session.ExpiresAt(); ok {
				fmt.Fprintf(w, "Session expires %s\n", c.app.templates.Since(exp))
			}
			return nil
		},
	}
}

// readSecret prompts for a single line on in. Terminals get a masked input, anything else is read
// line by line.
func readSecret(ctx context.Context, in io.Reader, out io.Writer, prompt string) (string, error) {
	if file, ok := in.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
		secret, err := ui.ReadSecret(ctx, prompt, in, out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return secret, nil
	}

	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
