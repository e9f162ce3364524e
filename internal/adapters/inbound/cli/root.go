package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/config"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/executor"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/gitinfo"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/locator"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/tui"
	"github.com/ohmybug/ohmybug-bridge/internal/application"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
	"github.com/ohmybug/ohmybug-bridge/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries what every subcommand needs once the persistent flags are
// parsed. It is populated in the root command's PersistentPreRunE.
type app struct {
	cfgFile string
	verbose bool
	noColor bool
	timeout time.Duration

	executor    domain.CommandExecutor
	locatorOpts []locator.Option

	cfg domain.BridgeConfig
	log *zap.Logger
	git domain.GitInfo
	svc *application.BridgeService
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ohmybug-bridge",
		Short: "Run ohmybug scans from anywhere",
		Long: "ohmybug-bridge finds the locally installed ohmybug CLI, runs scans and fixes against a project, " +
			"and reports normalized results on the terminal, over MCP, or over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default ~/.config/ohmybug-bridge/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging on stderr")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.DurationVar(&a.timeout, "timeout", 0, "Abort a scanner run after this long (0 waits indefinitely)")

	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newFixCmd(a))
	cmd.AddCommand(newAvailableCmd(a))
	cmd.AddCommand(newVersionCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newMCPCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.New().Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Invoke.Timeout = a.timeout
	}
	a.cfg = cfg

	log, err := logging.New(a.verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.log = log

	tui.SetNoColor(a.noColor || os.Getenv("NO_COLOR") != "" || !isTerminal(cmd.OutOrStdout()))

	if a.executor == nil {
		a.executor = executor.New()
	}
	a.git = gitinfo.New()
	a.buildService()
	return nil
}

// buildService wires the locator and bridge service from the current config.
func (a *app) buildService() {
	opts := append([]locator.Option{
		locator.WithLogger(a.log.Named("locator")),
		locator.WithParallelism(a.cfg.Doctor.Parallelism),
	}, a.locatorOpts...)
	loc := locator.New(a.cfg.Tool, a.executor, opts...)
	a.svc = application.NewBridgeService(loc, a.executor, a.cfg, a.log.Named("bridge"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// projectPath returns the first positional argument, or "." when none is given.
func projectPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// NewRootCmdForTest returns the root command wired to the given executor.
// Locator options let tests control which candidate paths exist.
func NewRootCmdForTest(exec domain.CommandExecutor, opts ...locator.Option) *cobra.Command {
	return newRootCmd(&app{executor: exec, locatorOpts: opts})
}

// Execute runs the root command. An interrupt cancels the command context,
// which kills a running scanner together with its child processes.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(&app{}).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
