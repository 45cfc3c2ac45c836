package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scripturelens/scripturelens/configs"
	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/errors"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a commented scripturelens.yaml to the current directory.
The generated file documents every setting with its default value.

Examples:
  scripturelens init
  scripturelens init --config ./configs/scripturelens.yaml
  scripturelens init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	path := configPath
	if path == "" {
		path = config.DefaultFileName
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError(path+" already exists (use --force to overwrite)", nil)
	}

	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return errors.ConfigError("cannot write "+path, err)
	}

	s := styles(cmd)
	outf(cmd, "%s %s\n", s.Success.Render("wrote"), path)
	outln(cmd, s.Dim.Render("Edit data.dir to point at your clear-aligner-*.sqlite files."))
	return nil
}
