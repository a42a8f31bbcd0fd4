// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wneessen/rentalhub/internal/dashboard"
	"github.com/wneessen/rentalhub/internal/lookup"
	"github.com/wneessen/rentalhub/internal/service"
	"github.com/wneessen/rentalhub/internal/ui"
)

func (c *cli) dashboardCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the owner or tenant dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serv, err := service.New(c.app.config, c.app.logger, dashboard.FromClient(c.app.client), c.app.session,
				cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if watch {
				return serv.Run(cmd.Context())
			}
			return serv.Print(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh the dashboard until interrupted")
	return cmd
}

func (c *cli) addressCmd() *cobra.Command {
	var initial string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Look up an address interactively and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			searcher, err := service.NewSearcher(c.app.config, c.app.logger)
			if err != nil {
				return err
			}
			l := lookup.New(searcher, c.app.logger, nil, lookup.WithDebounce(c.app.config.Geocoder.Debounce),
				lookup.WithDefaultValue(initial))
			picker, err := ui.Run(cmd.Context(), l, c.app.templates.Suggestion, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			address, ok := picker.Address()
			if !ok {
				return ErrNoAddress
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(address)
		},
	}
	cmd.Flags().StringVar(&initial, "query", "", "initial text of the address input")
	return cmd
}
