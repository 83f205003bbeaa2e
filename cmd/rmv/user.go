// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Work with user-supplied annotation-tool output",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List annotation files for a tool",
	Long: `List shows the structures covered by user-supplied output of one
annotation tool, read from <annotations-dir>/<tool>/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, _ := cmd.Flags().GetString("tool")

		r, cleanup, err := buildResolver(resolverConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := r.SelectUserTool(tool); err != nil {
			return err
		}

		ids, err := r.ListUserFiles()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Printf("No %s annotation files found.\n", tool)
			return nil
		}
		fmt.Println(strings.Join(ids, "\n"))
		return nil
	},
}

func init() {
	userListCmd.Flags().String("tool", "", "annotation tool (fr3d, rnamotifscan)")
	userListCmd.MarkFlagRequired("tool")

	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}
