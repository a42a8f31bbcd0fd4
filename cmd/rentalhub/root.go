// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wneessen/rentalhub/internal/api"
)

// cli carries the state shared by the command tree.
type cli struct {
	confPath string
	app      *app
}

func newRootCmd() *cobra.Command {
	c := new(cli)
	root := &cobra.Command{
		Use:          "rentalhub",
		Short:        "Terminal client for the rental property marketplace",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), c.confPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.confPath, "config", "", "path to the config file")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.registerCmd(),
		c.whoamiCmd(),
		c.propertiesCmd(),
		c.applicationsCmd(),
		c.paymentsCmd(),
		c.agreementsCmd(),
		c.dashboardCmd(),
		c.addressCmd(),
	)
	return root
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// propertyLabel returns the title of a populated property reference or its ID.
func propertyLabel(ref api.PropertyRef) string {
	if ref.Property != nil && ref.Property.Title != "" {
		return ref.Property.Title
	}
	return ref.ID
}
