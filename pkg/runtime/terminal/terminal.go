package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/softservesoftware/stig-bee/pkg/runtime/logging"
	"github.com/softservesoftware/stig-bee/pkg/runtime/terminal/commands"
	"github.com/softservesoftware/stig-bee/pkg/runtime/terminal/export"
	"github.com/softservesoftware/stig-bee/pkg/services/config"
	sinks "github.com/softservesoftware/stig-bee/pkg/services/export"
)

// CLI represents the command-line interface
type CLI struct {
	cfgPath string
	runtime *commands.Runtime
	output  io.Writer
	errOut  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Sinks overrides the export destinations built from the config.
	Sinks  sinks.Registry
	Output io.Writer
	ErrOut io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	cli := &CLI{
		runtime: &commands.Runtime{Sinks: opts.Sinks},
		output:  opts.Output,
		errOut:  opts.ErrOut,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs replaces os.Args, for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "stig-bee",
		Short:             "STIG benchmark and checklist converter",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOut)

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "",
		"Path to the config file (default is ./stig-bee.yaml)")

	reporters := map[string]commands.ReportHandler{
		"text":  NewReporter(cli.output),
		"table": export.NewReporter(cli.output),
	}

	cmd.AddCommand(commands.NewConvertCmd(cli.runtime))
	cmd.AddCommand(commands.NewInspectCmd(reporters))
	cmd.AddCommand(commands.NewProfilesCmd(cli.runtime))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return err
	}
	cli.runtime.Config = cfg

	logger := logging.New(cfg.Log, cli.errOut)
	cmd.SetContext(logger.WithContext(cmd.Context()))

	if cli.runtime.Sinks == nil {
		registry, err := sinks.NewDefaultRegistry(sinks.Options{
			S3: sinks.S3Options{
				Profile: cfg.Export.Profile,
				Region:  cfg.Export.Region,
			},
			Stdout: cli.output,
		})
		if err != nil {
			return fmt.Errorf("failed to create export sinks: %w", err)
		}
		cli.runtime.Sinks = registry
	}
	return nil
}
