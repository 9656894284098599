// Command listing serves and runs hearing listing needs assembly.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/hearing-scheduler/internal/config"
	"github.com/example/hearing-scheduler/internal/logging"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds state shared by every subcommand once configuration is loaded.
type cli struct {
	stdout   io.Writer
	stderr   io.Writer
	envFiles []string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "listing",
		Short:         "Hearing listing needs assembly",
		Long:          "Groups hearing candidates into listing needs, resolving booking references that share court schedules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", []string{".env"}, "dotenv files read before the process environment")

	root.AddCommand(
		c.serveCommand(),
		c.assembleCommand(),
		c.earliestDateCommand(),
		c.migrateCommand(),
	)
	return root
}

// loadConfig reads configuration and builds the process logger. Logs go to
// stderr so command output on stdout stays machine readable.
func (c *cli) loadConfig() error {
	cfg, err := config.Load(c.envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.Setup(c.stderr, level, logging.Format(cfg.LogFormat))
	return nil
}
