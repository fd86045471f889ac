package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/GoSlideModel/internal/config"
	"github.com/VantageDataChat/GoSlideModel/logging"
)

var (
	cfgFile string
	verbose bool
	quiet   bool

	// cfg is loaded once per invocation before any command runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slidemodel",
	Short: "Extract PPTX files to JSON records and generate them back",
	Long: `slidemodel converts PowerPoint packages (.pptx) into a normalized JSON
record and builds valid packages from such records.

Configuration is read from ./slidemodel.yaml (or --config) and
SLIDEMODEL_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./slidemodel.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// loadConfig reads configuration and installs the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var (
		c   *config.Config
		err error
	)
	if cfgFile != "" {
		c, err = config.NewFileLoader(cfgFile).Load()
	} else {
		c, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	logging.Init(c.Logging)
	cfg = c
	return nil
}

// currentConfig returns the loaded configuration, or the defaults when a
// command runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// printf writes status output unless --quiet is set.
func printf(w io.Writer, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}
