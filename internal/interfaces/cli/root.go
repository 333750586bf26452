// Package cli implements the patentlens command-line client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/patentlens/internal/config"
	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/client"
	"github.com/turtacn/patentlens/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// defaultConfigPath is consulted when --config is not given.
const defaultConfigPath = "./patentlens.yaml"

// defaultLogLevel applies unless --log-level, log.level or
// PATENTLENS_LOG_LEVEL says otherwise.
const defaultLogLevel = "warn"

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "patentlens",
		Short:   "PatentLens CLI: patent infringement analysis from the terminal",
		Long:    "PatentLens submits a patent id and a company name to the analysis service\nand prints the products most likely to infringe the patent.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: "+defaultConfigPath+")")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "analysis request timeout (default from config)")
	pf.StringVar(&opts.ServerAddr, "server", "", "analysis service base URL (default from config)")

	cmd.AddCommand(NewAnalyzeCmd(), NewVersionCmd())
	return cmd
}

// persistentPreRun initializes config, logger and client, then stores the
// CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	format := strings.ToLower(opts.OutputFormat)
	if format != OutputText && format != OutputJSON {
		return errors.InvalidParam("unsupported output format").WithDetail(opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := initLogger(cfg, cmd.ErrOrStderr())

	apiClient, err := initClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("client initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       apiClient,
		OutputFormat: format,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.LoadOrDefault(path, config.WithDefault("log.level", defaultLogLevel))
	if err != nil {
		return nil, err
	}

	if opts.ServerAddr != "" {
		cfg.Analysis.BaseURL = opts.ServerAddr
	}
	if opts.Timeout > 0 {
		cfg.Analysis.Timeout = opts.Timeout
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// initLogger creates a console logger on stderr so stdout carries only results.
func initLogger(cfg *config.Config, w io.Writer) logging.Logger {
	return logging.NewWriterLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: "console",
	}, w)
}

func initClient(cfg *config.Config, logger logging.Logger) (*client.Client, error) {
	opts := []client.Option{
		client.WithEndpoint(cfg.Analysis.Endpoint),
		client.WithTimeout(cfg.Analysis.Timeout),
		client.WithLogger(logging.NewPrintf(logger.Named("client"))),
	}
	if cfg.Analysis.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.Analysis.UserAgent))
	}
	return client.NewClient(cfg.Analysis.BaseURL, opts...)
}

// GetCLIContext extracts the CLIContext stored by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialized")
	}
	return cliCtx, nil
}

// Execute runs the root command under ctx. Errors are printed to stderr and
// returned so main can set the exit code.
func Execute(ctx context.Context, args ...string) error {
	rootCmd := NewRootCommand()
	if len(args) > 0 {
		rootCmd.SetArgs(args)
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// printJSON writes data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes the user-facing message for err to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", form.MessageFor(err))
}

// FormatTable renders headers and rows as an aligned text table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(val + strings.Repeat(" ", widths[i]-len(val)))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}
