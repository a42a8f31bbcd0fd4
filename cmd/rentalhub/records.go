// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wneessen/rentalhub/internal/api"
)

func (c *cli) applicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"application", "apps"},
		Short:   "Review rental applications",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your applications, or the applications for your properties as owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			fetch := c.app.client.Applications.Tenant
			if c.app.session.IsOwner() {
				fetch = c.app.client.Applications.Owner
			}
			applications, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout())
			fmt.Fprintln(table, "ID\tSTATUS\tPROPERTY\tBACKGROUND CHECK\tSUBMITTED")
			for _, application := range applications {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", application.ID, application.Status,
					propertyLabel(application.Property), application.BackgroundCheckStatus,
					c.app.templates.Since(application.CreatedAt))
			}
			return table.Flush()
		},
	}

	var reason string
	statuses := make([]string, len(api.ApplicationStatuses))
	for i, status := range api.ApplicationStatuses {
		statuses[i] = string(status)
	}
	status := &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Move an application to a new status (owners only)",
		Long:      "Move an application to a new status. Valid states: " + strings.Join(statuses, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: statuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			application, err := c.app.client.Applications.UpdateStatus(cmd.Context(), args[0],
				api.ApplicationStatus(args[1]), reason)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Application %s is now %s\n", application.ID, application.Status)
			return err
		},
	}
	status.Flags().StringVar(&reason, "reason", "", "reason shown to the tenant when rejecting")

	cmd.AddCommand(list, status)
	return cmd
}

func (c *cli) paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Show rent payments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List payments made by you, or received by you as owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			fetch := c.app.client.Payments.Tenant
			if c.app.session.IsOwner() {
				fetch = c.app.client.Payments.Owner
			}
			payments, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout())
			fmt.Fprintln(table, "ID\tAMOUNT\tSTATUS\tPROPERTY\tDATE")
			for _, payment := range payments {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", payment.ID, c.app.templates.Money(payment.Amount),
					payment.Status, propertyLabel(payment.Property), payment.CreatedAt.Format("2006-01-02"))
			}
			return table.Flush()
		},
	}

	receipt := &cobra.Command{
		Use:   "receipt <id>",
		Short: "Print the receipt of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			text, err := c.app.client.Payments.Receipt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.AddCommand(list, receipt)
	return cmd
}

func (c *cli) agreementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agreements",
		Aliases: []string{"agreement"},
		Short:   "Manage rental agreements",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your rental agreements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			fetch := c.app.client.Agreements.Tenant
			if c.app.session.IsOwner() {
				fetch = c.app.client.Agreements.Owner
			}
			agreements, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout())
			fmt.Fprintln(table, "ID\tSTATUS\tPROPERTY\tSTART\tEND")
			for _, agreement := range agreements {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", agreement.ID, agreement.Status,
					propertyLabel(agreement.Property), agreement.StartDate.Format("2006-01-02"),
					agreement.EndDate.Format("2006-01-02"))
			}
			return table.Flush()
		},
	}

	sign := &cobra.Command{
		Use:   "sign <id>",
		Short: "Sign a rental agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateAgreement(cmd, func(ctx context.Context) (api.Agreement, error) {
				return c.app.client.Agreements.Sign(ctx, args[0])
			})
		},
	}

	var reason string
	terminate := &cobra.Command{
		Use:   "terminate <id>",
		Short: "Terminate a rental agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(reason) == "" {
				return errors.New("a termination reason is required")
			}
			return c.updateAgreement(cmd, func(ctx context.Context) (api.Agreement, error) {
				return c.app.client.Agreements.Terminate(ctx, args[0], reason)
			})
		},
	}
	terminate.Flags().StringVar(&reason, "reason", "", "reason for the termination")

	cmd.AddCommand(list, sign, terminate)
	return cmd
}

func (c *cli) updateAgreement(cmd *cobra.Command, update func(context.Context) (api.Agreement, error)) error {
	if _, err := c.app.requireLogin(); err != nil {
		return err
	}
	agreement, err := update(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Agreement %s is now %s\n", agreement.ID,
		strings.ReplaceAll(string(agreement.Status), "_", " "))
	return err
}
