// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered annotation sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cleanup, err := buildResolver(resolverConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tNAME\tDESCRIPTION")
		for _, info := range r.Sources() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Kind, info.Name, info.Description)
		}
		return w.Flush()
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check <pdb-id>",
	Short: "Check which bundled sources cover a PDB structure",
	Long: `Check reports, per enumerable source, whether the given PDB identifier is
present. Remote APIs are not probed; they appear only in resolve output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdbID := types.NormalizePDBID(args[0])
		if pdbID == "" {
			return fmt.Errorf("empty PDB identifier")
		}

		r, cleanup, err := buildResolver(resolverConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		availability := r.CheckAvailability(pdbID)
		if len(availability) == 0 {
			fmt.Println("No enumerable sources are configured.")
			return nil
		}

		ids := make([]string, 0, len(availability))
		for id := range availability {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			status := "absent"
			if availability[id] {
				status = "available"
			}
			fmt.Printf("%-12s %s\n", id, status)
		}
		return nil
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesCheckCmd)
	rootCmd.AddCommand(sourcesCmd)
}
