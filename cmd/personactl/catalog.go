package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/personas/internal/persona"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the persona archetypes and their trait fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			header := []string{"KEY", "NAME"}
			for _, t := range persona.Traits() {
				header = append(header, strings.ToUpper(t.String()))
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, arch := range c.Archetypes() {
				row := []string{arch.Key, arch.Emoji + " " + arch.Name}
				for _, t := range persona.Traits() {
					row = append(row, arch.Fingerprint.Value(t))
				}
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
}
