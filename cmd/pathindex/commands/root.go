// Package commands implements the pathindex command line.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pathindex",
	Short: "Inspect and edit a path index",
	Long: `pathindex manages a virtual directory index that maps logical paths
to opaque storage locations. The index lives in a single file under the base
directory and is rewritten after every change.

Use "pathindex [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.String(keyBaseDir, "", "base directory holding the index (default: $TMPDIR/pathindex)")
	flags.String(keyIndexName, "", `index file name inside the base directory (default: "index")`)
	flags.String(keyFormat, "", "index file format: json, yaml or flatbuffers (default: json)")
	flags.String(keyCompression, "", "index file compression: none or zstd (default: none)")
	flags.Bool(keyNoVerify, false, "skip index digest verification")
	flags.Bool(keyResetCorrupt, false, "start from an empty index if the stored one is unreadable")
	flags.String(keyLogLevel, "", "log level: debug, info, warn or error (default: warn)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(mvdirCmd)
	rootCmd.AddCommand(rmdirCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(filesCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
