// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the annotation cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location, entry counts, and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := buildCache(resolverConfig())
		if err != nil {
			return err
		}
		stats, err := mgr.Info()
		if err != nil {
			return err
		}

		fmt.Printf("Cache directory: %s\n", stats.Dir)
		fmt.Printf("Entries:         %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Printf("Total size:      %d bytes\n", stats.TotalBytes)

		if len(stats.ByProvider) > 0 {
			ids := make([]string, 0, len(stats.ByProvider))
			for id := range stats.ByProvider {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tENTRIES")
			for _, id := range ids {
				fmt.Fprintf(w, "%s\t%d\n", id, stats.ByProvider[id])
			}
			return w.Flush()
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := buildCache(resolverConfig())
		if err != nil {
			return err
		}
		removed, err := mgr.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cache entries.\n", removed)
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove only expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := buildCache(resolverConfig())
		if err != nil {
			return err
		}
		removed, err := mgr.CleanupExpired()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired cache entries.\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	rootCmd.AddCommand(cacheCmd)
}
