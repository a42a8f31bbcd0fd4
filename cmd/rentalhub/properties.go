// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wneessen/rentalhub/internal/api"
	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/lookup"
	"github.com/wneessen/rentalhub/internal/service"
	"github.com/wneessen/rentalhub/internal/template"
	"github.com/wneessen/rentalhub/internal/ui"
)

var ErrNoAddress = errors.New("no address selected")

func (c *cli) propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property", "props"},
		Short:   "Browse and manage rental properties",
	}
	cmd.AddCommand(c.propertiesListCmd(), c.propertiesShowCmd(), c.propertiesCreateCmd(), c.propertiesDeleteCmd())
	return cmd
}

func (c *cli) propertiesListCmd() *cobra.Command {
	var (
		filter api.PropertyFilter
		mine   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if mine {
				if _, err := c.app.requireLogin(); err != nil {
					return err
				}
				properties, err := c.app.client.Properties.Owner(cmd.Context())
				if err != nil {
					return err
				}
				for _, property := range properties {
					if err = template.Render(w, c.app.templates.Property, property); err != nil {
						return err
					}
				}
				return nil
			}

			page, err := c.app.client.Properties.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, property := range page.Properties {
				if err = template.Render(w, c.app.templates.Property, property); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(w, "Page %d of %d, %d properties in total\n", page.Pagination.Page,
				page.Pagination.Pages, page.Pagination.Total)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&filter.City, "city", "", "only properties in this city")
	flags.StringVar(&filter.State, "state", "", "only properties in this state")
	flags.Float64Var(&filter.MinPrice, "min-price", 0, "minimum monthly rent")
	flags.Float64Var(&filter.MaxPrice, "max-price", 0, "maximum monthly rent")
	flags.IntVar(&filter.Bedrooms, "bedrooms", 0, "minimum number of bedrooms")
	flags.IntVar(&filter.Bathrooms, "bathrooms", 0, "minimum number of bathrooms")
	flags.StringSliceVar(&filter.Amenities, "amenity", nil, "required amenity, may be repeated")
	flags.IntVar(&filter.Page, "page", 1, "result page")
	flags.IntVar(&filter.Limit, "limit", 10, "properties per page")
	flags.BoolVar(&mine, "mine", false, "list the properties of the logged in owner")
	return cmd
}

func (c *cli) propertiesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			property, err := c.app.client.Properties.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n\n%s\n\n", property.Title, property.Description)
			fmt.Fprintf(w, "Rent:       %s per month\n", c.app.templates.Money(property.Price))
			fmt.Fprintf(w, "Rooms:      %d bedrooms, %g bathrooms, %d sq ft\n", property.Bedrooms,
				property.Bathrooms, property.SquareFeet)
			addr := property.Address
			fmt.Fprintf(w, "Address:    %s, %s, %s %s, %s\n", addr.Street, addr.City, addr.State, addr.ZipCode,
				addr.Country)
			if addr.Coordinates != nil {
				fmt.Fprintf(w, "Location:   %.4f, %.4f\n", addr.Coordinates.Latitude, addr.Coordinates.Longitude)
			}
			if len(property.Amenities) > 0 {
				fmt.Fprintf(w, "Amenities:  %s\n", strings.Join(property.Amenities, ", "))
			}
			availability := "available"
			if !property.Availability {
				availability = "not available"
			}
			fmt.Fprintf(w, "Status:     %s, listed %s\n", availability, c.app.templates.Since(property.CreatedAt))
			return nil
		},
	}
}

func (c *cli) propertiesCreateCmd() *cobra.Command {
	var (
		input   api.PropertyInput
		query   string
		country string
		images  []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a new property",
		Long: "List a new property. Without --address an interactive address picker is shown, with it the " +
			"first geocoding match is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			if !c.app.session.IsOwner() {
				return errors.New("only owners can list properties")
			}

			address, err := c.resolveAddress(cmd, query)
			if err != nil {
				return err
			}
			input.Address = propertyAddress(address)
			if input.Address.Country == "" {
				input.Address.Country = country
			}

			property, err := c.app.client.Properties.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			if len(images) > 0 {
				if property.Images, err = c.uploadImages(cmd.Context(), property.ID, images); err != nil {
					return err
				}
			}
			return template.Render(cmd.OutOrStdout(), c.app.templates.Property, property)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.Title, "title", "", "title of the listing")
	flags.StringVar(&input.Description, "description", "", "description of the listing")
	flags.Float64Var(&input.Price, "price", 0, "monthly rent")
	flags.IntVar(&input.Bedrooms, "bedrooms", 0, "number of bedrooms")
	flags.Float64Var(&input.Bathrooms, "bathrooms", 0, "number of bathrooms")
	flags.IntVar(&input.SquareFeet, "square-feet", 0, "living space in square feet")
	flags.StringSliceVar(&input.Amenities, "amenity", nil, "amenity, may be repeated")
	flags.StringVar(&query, "address", "", "address to geocode instead of picking it interactively")
	flags.StringVar(&country, "country", "USA", "country used when the geocoder returns none")
	flags.StringSliceVar(&images, "image", nil, "image file to upload, may be repeated")
	return cmd
}

func (c *cli) propertiesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a property listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.requireLogin(); err != nil {
				return err
			}
			msg, err := c.app.client.Properties.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if msg.Message == "" {
				msg.Message = "Property deleted"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
			return err
		},
	}
}

// resolveAddress geocodes query and takes the first match. An empty query opens the address picker.
func (c *cli) resolveAddress(cmd *cobra.Command, query string) (geocode.Address, error) {
	searcher, err := service.NewSearcher(c.app.config, c.app.logger)
	if err != nil {
		return geocode.Address{}, err
	}
	if query != "" {
		suggestions, err := searcher.Search(cmd.Context(), query)
		if err != nil {
			return geocode.Address{}, fmt.Errorf("failed to geocode address: %w", err)
		}
		if len(suggestions) == 0 {
			return geocode.Address{}, fmt.Errorf("no address found for %q", query)
		}
		return suggestions[0].Resolve(), nil
	}

	l := lookup.New(searcher, c.app.logger, nil, lookup.WithDebounce(c.app.config.Geocoder.Debounce),
		lookup.WithRequired(true))
	picker, err := ui.Run(cmd.Context(), l, c.app.templates.Suggestion, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return geocode.Address{}, err
	}
	address, ok := picker.Address()
	if !ok {
		return geocode.Address{}, ErrNoAddress
	}
	return address, nil
}

func (c *cli) uploadImages(ctx context.Context, id string, paths []string) ([]string, error) {
	files := make([]api.File, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer file.Close()
		files = append(files, api.File{Name: path, Reader: file})
	}
	return c.app.client.Properties.UploadImages(ctx, id, files)
}

func propertyAddress(address geocode.Address) api.PropertyAddress {
	return api.PropertyAddress{
		Street:  strings.TrimSpace(address.StreetNumber + " " + address.Route),
		City:    address.City,
		State:   address.State,
		ZipCode: address.PostalCode,
		Country: address.Country,
		Coordinates: &api.Coordinates{
			Latitude:  address.Lat,
			Longitude: address.Lng,
		},
	}
}
