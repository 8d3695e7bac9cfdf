package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hub/pkg/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hub",
		Short: "Convention-based module/controller/action dispatch server",
		Long: `hub maps request paths to controller actions by convention:
/<module>/<controller...>/<action>. Missing segments fall back to the
configured defaults.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML); HUB_* environment variables override it")

	cmd.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath)
}
