package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/errors"
)

func newInitCmd() *cobra.Command {
	var printOnly, force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default contractgen.toml",
		Long: `Write the default configuration to contractgen.toml (or the given path).
An existing file is only replaced with --force; the previous version is kept as
a .back1 backup.

Examples:
  contractgen init
  contractgen init --print          # Show every supported key
  contractgen init ci.toml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := config.Defaults()
			if printOnly {
				data, err := config.Marshal(defaults)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.WithHint(
					errors.MarkInvalidConfig("%s already exists", path),
					"use --force to overwrite it")
			}
			if err := config.Save(path, defaults); err != nil {
				return err
			}
			pterm.Success.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the default configuration instead of writing it")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
