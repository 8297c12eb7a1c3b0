package cmd

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
	"sigs.k8s.io/yaml"
)

var errNoEventLog = errors.New("no event_log configured")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the interpreter event log.",
}

func openEventLog() (afero.File, error) {
	configuration, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !configuration.EventLogEnabled() {
		return nil, fmt.Errorf("%w in %s", errNoEventLog, config.ConfigurationName)
	}
	return configuration.ReadEventLog()
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		var report logger.Report
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

var catCommand = &cobra.Command{
	Use:   "cat",
	Short: "Print every event, one per line.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		return logger.ReadJSONLinesLog(fd, func(le *structpb.Struct) {
			fmt.Fprintln(cmd.OutOrStdout(), logger.FormatEntry(le))
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(catCommand)
}
