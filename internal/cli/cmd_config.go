package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"entities/internal/config"
)

func newConfigCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}
	cmd.AddCommand(newConfigShowCommand(deps))
	cmd.AddCommand(newConfigInitCommand(deps))
	return cmd
}

func newConfigShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML (secrets masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("config show does not accept positional arguments")
			}
			cfg, path, err := loadConfig(deps.globals)
			if err != nil {
				return err
			}

			masked := *cfg
			if masked.Database.Password != "" {
				masked.Database.Password = "[REDACTED]"
			}

			if path != "" {
				fmt.Fprintf(deps.out, "# loaded from %s\n", path)
			}
			data, err := yaml.Marshal(masked)
			if err != nil {
				return mapCommandError(err)
			}
			_, err = deps.out.Write(data)
			return mapCommandError(err)
		},
	}
}

func newConfigInitCommand(deps commandDeps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return usageErrorf("config file %s already exists (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return mapCommandError(fmt.Errorf("config init: %w", err))
			}
			_, err := fmt.Fprintf(deps.out, "wrote %s\n", path)
			return mapCommandError(err)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
