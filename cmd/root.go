package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/proc"
	"github.com/josephlewis42/myshell/core/shell"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cfgPath string

// loadConfig reads the configuration named by --config, or the built-in
// defaults if the flag wasn't given.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadOrDefault(afero.NewOsFs(), cfgPath)
}

func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "myshell",
	})
}

// openEvents opens the configured event log, or a no-op log if there's none.
func openEvents(configuration *config.Configuration) (*logger.SessionLogger, io.Closer, error) {
	if !configuration.EventLogEnabled() {
		return logger.NewNopLogger().Sessionless(), io.NopCloser(nil), nil
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "myshell",
	Short: "A small interactive command interpreter",
	Long: `An interactive command interpreter that runs programs found on PATH
in the foreground or, with &, in the background. It supports <, >, >> and 2>
redirection, a short command history replayed with !N, and Ctrl-C to kill the
running foreground program.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		diagnostics := newLogger(cmd.ErrOrStderr(), configuration.LogLevel)

		events, eventLog, err := openEvents(configuration)
		if err != nil {
			return err
		}
		defer eventLog.Close()

		sh, err := shell.NewShell(configuration, shell.Env{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Events: events,
			Logger: diagnostics,
		})
		if err != nil {
			return err
		}
		defer sh.Close()

		bridge := proc.NewInterruptBridge(sh.Jobs, diagnostics)
		bridge.Start()
		defer bridge.Stop()

		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration directory or config.yaml path")
}
