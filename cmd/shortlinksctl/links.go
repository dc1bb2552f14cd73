package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add URL [CODE]",
		Short: "Map a short code to a URL, replacing the code if it exists.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 2 {
				code = args[1]
			}
			if code == "" && !bool(a.cfg.Shortener.GenerateCodes) {
				return errors.New("no code given, pass CODE or --generate")
			}

			code, err := a.links.Shorten(cmd.Context(), args[0], code)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Shortened! /api/%s -> %s\n", code, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&a.generate, "generate", "g", false,
		"derive the code from the URL when none is given")

	return cmd
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CODE",
		Short: "Print the URL a short code points to.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.links.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every stored link ordered by code.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			links, err := a.links.Links(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(links)
			}

			for _, code := range slices.Sorted(maps.Keys(links)) {
				fmt.Fprintf(out, "%s\t%s\n", code, links[code])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the links as a JSON object")

	return cmd
}
