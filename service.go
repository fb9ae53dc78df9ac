package main

import (
	"github.com/spf13/cobra"

	"github.com/nikicat/bar-helper/internal/service"
)

func newServiceCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the systemd user service for network notifications",
	}

	var start bool
	install := &cobra.Command{
		Use:   "install",
		Short: "Write and enable the systemd user unit",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return service.Install(service.Options{ConfigPath: flags.configPath, Start: start})
		},
	}
	install.Flags().BoolVar(&start, "start", false, "Start the service immediately after enabling")

	cmd.AddCommand(
		install,
		&cobra.Command{
			Use:   "uninstall",
			Short: "Stop, disable and remove the systemd user unit",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return service.Uninstall()
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show systemctl status for the service",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return service.Status()
			},
		},
	)
	return cmd
}
