package cli

import (
	"io"
	"io/fs"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// globalOptions holds the persistent flags. Zero values mean "not set".
type globalOptions struct {
	ConfigPath string
	Port       int
	DBPath     string
	JSON       bool
}

type commandDeps struct {
	out     io.Writer
	build   BuildInfo
	web     fs.FS
	globals *globalOptions
}

// NewRootCommand builds the entities command tree. web holds the front-end
// served at / and may be nil. Running the root command without a
// subcommand starts the server.
func NewRootCommand(out io.Writer, build BuildInfo, web fs.FS) *cobra.Command {
	deps := commandDeps{
		out:     out,
		build:   build,
		web:     web,
		globals: &globalOptions{},
	}

	cmd := &cobra.Command{
		Use:           "entities",
		Short:         "Entities CRUD service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return runServe(cmd.Context(), deps)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitCodeUsage, Err: err}
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&deps.globals.ConfigPath, "config", "", "Path to config file (default: search ENTITIES_CONFIG, ./entities.yaml, XDG, /etc)")
	flags.IntVar(&deps.globals.Port, "port", 0, "HTTP listen port (overrides PORT and config)")
	flags.StringVar(&deps.globals.DBPath, "db", "", "SQLite database path (overrides DB_PATH and config; selects sqlite)")
	flags.BoolVar(&deps.globals.JSON, "json", false, "Print command output as JSON")

	cmd.AddCommand(newServeCommand(deps))
	cmd.AddCommand(newMigrateCommand(deps))
	cmd.AddCommand(newConfigCommand(deps))
	cmd.AddCommand(newVersionCommand(deps))
	return cmd
}
