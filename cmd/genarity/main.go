package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"genarity/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "genarity",
	Short: "Generic arity reduction generator",
	Long: `genarity reads a declaration snapshot and emits overloads of generic
declarations with fewer type parameters, filling trailing slots with defaults`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Colored()

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	registerGlobalFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerGlobalFlags adds the persistent flags shared by every command.
func registerGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = manifest or unbounded)")
	pf.Int("jobs", 0, "max parallel targets (0 = manifest or GOMAXPROCS)")
	pf.String("manifest", "", "path to genarity.toml (default: search upwards from the working directory)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", time.Duration(0), "heartbeat interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
