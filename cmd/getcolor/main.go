package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanamizuki10/get-color-for-windows/internal/config"
)

var (
	version  = "0.1.0"
	cfgFile  string
	logLevel string

	autostart    bool
	serve        bool
	sampleFormat string
	listFormat   string
	listenAddr   string
)

var rootCmd = &cobra.Command{
	Use:   "getcolor",
	Short: "Show the color of the pixel under the mouse cursor",
	Long: `getcolor samples the screen pixel under the mouse cursor ten times a
second and shows its coordinates, color name and #RRGGBB code.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive color picker",
	Long: `Start the interactive color picker. Press Enter (or Space then Enter)
to start or stop sampling, and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the color under the cursor once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sampleOnce()
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List the monitors in enumeration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listMonitors()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve samples over HTTP and websocket without a console view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveOnly()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	runCmd.Flags().BoolVar(&autostart, "autostart", false, "start sampling immediately")
	runCmd.Flags().BoolVar(&serve, "serve", false, "also serve the HTTP API")
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (overrides listen)")

	serveCmd.Flags().BoolVar(&autostart, "autostart", false, "start sampling immediately")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (overrides listen)")

	sampleCmd.Flags().StringVar(&sampleFormat, "format", "text", "output format: text, json or yaml")
	monitorsCmd.Flags().StringVar(&listFormat, "format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(monitorsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
