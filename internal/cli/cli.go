package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vk/objgraph/internal/app"
)

const (
	configFlag        = "config"
	formatFlag        = "format"
	outputFlag        = "output"
	logFormatFlag     = "log-format"
	logLevelFlag      = "log-level"
	ignoreUnknownFlag = "ignore-unknown-members"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath    string
	format        string
	output        string
	logFormat     string
	logLevel      string
	ignoreUnknown bool
}

// NewRootCmd builds the objgraph command tree. Results go to outW, logs and
// usage errors to errW.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	opts := &options{}
	defaults := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "objgraph",
		Short: "Materialize Go object graphs from HCL and JSON documents",
		Long: `objgraph loads a document against the compiled-in types and prints the
resulting object graph.

Documents are HCL (.hcl) or JSON with comments (.json, .jsonc). A directory
argument loads every document below it.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, configFlag, "c", "", "Path to a YAML config file.")
	flags.StringVarP(&opts.format, formatFlag, "f", defaults.Format, "Document format. Options: 'auto', 'hcl' or 'json'.")
	flags.StringVarP(&opts.output, outputFlag, "o", defaults.Output, "Output encoding of load. Options: 'json', 'yaml' or 'cbor'.")
	flags.StringVar(&opts.logFormat, logFormatFlag, defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&opts.logLevel, logLevelFlag, defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.BoolVar(&opts.ignoreUnknown, ignoreUnknownFlag, false, "Skip members the target type does not declare.")

	newApp := func(c *cobra.Command, path string) (*app.App, error) {
		cfg, err := opts.config(c.Flags(), path)
		if err != nil {
			return nil, err
		}
		return app.NewApp(outW, errW, cfg), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "load PATH",
			Short: "Print the object graph of a document",
			Args:  exactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				a, err := newApp(c, args[0])
				if err != nil {
					return err
				}
				return a.Run(c.Context())
			},
		},
		&cobra.Command{
			Use:   "events PATH",
			Short: "Print the write events a document produces",
			Args:  exactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				a, err := newApp(c, args[0])
				if err != nil {
					return err
				}
				return a.Events(c.Context())
			},
		},
		&cobra.Command{
			Use:   "types",
			Short: "List the compiled-in types and their members",
			Args:  exactArgs(0),
			RunE: func(c *cobra.Command, _ []string) error {
				a, err := newApp(c, "-")
				if err != nil {
					return err
				}
				return a.Types()
			},
		},
	)
	return cmd
}

// config resolves the application config: defaults, then the config file,
// then every flag set on the command line.
func (o *options) config(flags *pflag.FlagSet, path string) (*app.Config, error) {
	cfg := app.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = app.LoadConfigFile(o.configPath, cfg); err != nil {
			return nil, usageError(err)
		}
	}
	if flags.Changed(formatFlag) {
		cfg.Format = o.format
	}
	if flags.Changed(outputFlag) {
		cfg.Output = o.output
	}
	if flags.Changed(logFormatFlag) {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed(logLevelFlag) {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed(ignoreUnknownFlag) {
		cfg.IgnoreUnknownMembers = o.ignoreUnknown
	}
	cfg.Path = path

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	cmd := NewRootCmd(outW, errW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
