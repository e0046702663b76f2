package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prbot/prbot/internal/transfer"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export and import database items",
}

var dataExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export database items to JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		if _, err := os.Stat(args[0]); err == nil && !overwrite {
			color.Red("Output file '%s' already exists.", args[0])
			os.Exit(1)
		}

		rt := newRuntime()
		defer rt.Close()

		fd, err := os.Create(args[0])
		if err != nil {
			fatal(err)
		}
		defer fd.Close()

		if err := transfer.NewProcessor(rt.Store).Export(fd); err != nil {
			fatal(err)
		}
		color.Green("Data exported to '%s'.", args[0])
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import database items from JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		compatibility, _ := cmd.Flags().GetBool("compatibility")

		fd, err := os.Open(args[0])
		if err != nil {
			color.Red("Import file '%s' does not exist.", args[0])
			os.Exit(1)
		}
		defer fd.Close()

		rt := newRuntime()
		defer rt.Close()

		processor := transfer.NewProcessor(rt.Store)
		if compatibility {
			err = processor.ImportCompatibility(fd)
		} else {
			err = processor.Import(fd)
		}
		if err != nil {
			fatal(err)
		}
		color.Green("Data imported from '%s'.", args[0])
	},
}

func init() {
	dataExportCmd.Flags().Bool("overwrite", false, "overwrite existing file")
	dataImportCmd.Flags().Bool("compatibility", false, "use compatibility mode")

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
}
