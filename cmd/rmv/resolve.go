// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reymondkenney20/rmv-2/internal/resolver"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <pdb-id>",
	Short: "Resolve motif annotations for a PDB structure",
	Long: `Resolve fetches motif annotations for the given PDB identifier using the
active source-selection mode. By default (auto) bundled datasets are tried
before remote APIs and the first non-empty result wins; see --mode for the
other strategies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdbID := types.NormalizePDBID(args[0])
		if pdbID == "" {
			return fmt.Errorf("empty PDB identifier")
		}

		mode, _ := cmd.Flags().GetString("mode")
		source, _ := cmd.Flags().GetString("source")
		tool, _ := cmd.Flags().GetString("tool")
		refresh, _ := cmd.Flags().GetBool("refresh")
		asJSON, _ := cmd.Flags().GetBool("json")

		r, cleanup, err := buildResolver(resolverConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		if tool != "" {
			if err := r.SelectUserTool(tool); err != nil {
				return err
			}
			if mode == "" {
				mode = string(resolver.ModeUser)
			}
		}
		if mode != "" {
			if err := r.SetMode(mode, source); err != nil {
				return err
			}
		} else if source != "" {
			cfg := r.Config()
			if err := r.SetMode(string(cfg.Mode), source); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		var result types.AnnotationResult
		if refresh {
			result, err = r.ForceRefresh(ctx, pdbID)
		} else {
			result, err = r.Resolve(ctx, pdbID)
		}
		if err != nil {
			return fmt.Errorf("resolving %s: %w", pdbID, err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(pdbID, result)
		return nil
	},
}

// printResult renders one resolution as a grouped table, motif types in
// sorted order, one row per instance.
func printResult(pdbID string, result types.AnnotationResult) {
	if result.IsEmpty() {
		fmt.Printf("No motif annotations found for %s.\n", pdbID)
		return
	}

	fmt.Printf("Motif annotations for %s (source: %s)\n\n", pdbID, result.ProviderID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCHAIN\tMODEL\tRANGE\tSCORE\tSOURCE")
	for _, motifType := range result.MotifTypes() {
		for _, inst := range result.Motifs[motifType] {
			score := "-"
			if inst.Score != nil {
				score = fmt.Sprintf("%.3g", *inst.Score)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d-%d\t%s\t%s\n",
				motifType, inst.Chain, inst.ModelNumber,
				inst.ResidueStart, inst.ResidueEnd, score, inst.SourceID)
		}
	}
	w.Flush()

	fmt.Printf("\n%d instances across %d motif types\n",
		result.InstanceCount(), len(result.Motifs))
}

func init() {
	resolveCmd.Flags().String("mode", "", "source selection mode: "+strings.Join(resolver.ModeNames(), ", "))
	resolveCmd.Flags().String("source", "", "narrow local/web mode to a single source id")
	resolveCmd.Flags().String("tool", "", "annotation tool for user mode (fr3d, rnamotifscan)")
	resolveCmd.Flags().Bool("refresh", false, "bypass the cache and refetch remote sources")
	resolveCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(resolveCmd)
}
