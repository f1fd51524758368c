package cmd

import (
	"fmt"
	"os"

	ui "github.com/atdiar/regionui"
	"github.com/atdiar/regionui/internal/config"

	"github.com/spf13/cobra"
)

var cfg config.Config
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "regionui",
	Short: "regionui renders pages composed of regions and views",
	Long: `
		regionui renders the page described by a YAML layout file: its document,
		the regions of the document and the views shown in them.
		Settings are read from REGIONUI_* environment variables; flags override them.
	`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Debug = ui.Debug || cfg.Debug || verbose
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&cfg.Layout, "layout", "l", cfg.Layout, "YAML layout file")
	flags.StringVarP(&cfg.Templates, "templates", "t", cfg.Templates, "directory of html templates")
	flags.StringVar(&cfg.DB, "db", cfg.DB, "sqlite database queried by the layout's data sets")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output file, stdout when empty")
}
