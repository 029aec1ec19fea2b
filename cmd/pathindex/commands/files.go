package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/pathindex"
)

var addCmd = &cobra.Command{
	Use:   "add PATH LOCATION",
	Short: "Record the location of a file",
	Long: `Record LOCATION as the storage location of the file at PATH.

Missing parent directories are created. An existing file or directory at
PATH is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			return idx.AddFile(args[0], args[1])
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get PATH",
	Short: "Print the location of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(cmd, func(idx *pathindex.Index) error {
			location, ok := idx.LookupFile(args[0])
			if !ok {
				return fmt.Errorf("no file at %s", args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm PATH",
	Short: "Remove a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			ok, err := idx.RemoveFile(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no file at %s", args[0])
			}
			return nil
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv SRC DEST",
	Short: "Move a file",
	Long: `Move the file at SRC to DEST.

Missing parent directories of DEST are created. An existing file or
directory at DEST is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			ok, err := idx.MoveFile(args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no file at %s", args[0])
			}
			return nil
		})
	},
}
