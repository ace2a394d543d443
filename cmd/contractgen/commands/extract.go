package commands

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/contract/extract"
	"github.com/teranos/contractgen/errors"
)

func newExtractCmd() *cobra.Command {
	var (
		opts   extract.Options
		output string
	)

	cmd := &cobra.Command{
		Use:   "extract <packages...>",
		Short: "Build an IR document from Go packages",
		Long: `Load Go packages and convert their exported types into a contract IR
document. Structs become types, integer types with constants become enums, and
doc comment directives mark commands, queries and operations:

  //contract:command
  //contract:query []UserDTO
  //contract:operation bool
  //contract:alias users/create
  //contract:exclude
  //contract:errors CreateUser

Examples:
  contractgen extract ./api/...                              # IR to stdout
  contractgen extract ./api/... -o contracts.yaml            # IR to a file
  contractgen extract ./api --trim-prefix example.com/shop   # Shorter namespaces`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := extract.FromPackages(args, opts)
			if err != nil {
				return err
			}
			if err := contract.Validate(prog); err != nil {
				return errors.Wrap(err, "extracted program is invalid")
			}

			var buf bytes.Buffer
			if err := contract.Encode(&buf, prog); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), config.DefaultDirPermissions); err != nil {
				return errors.Wrapf(err, "failed to create directory for %s", output)
			}
			if err := os.WriteFile(output, buf.Bytes(), config.DefaultFilePermissions); err != nil {
				return errors.Wrapf(err, "failed to write %s", output)
			}
			pterm.Success.Printf("Extracted %d declarations to %s\n", len(prog.Declarations), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "IR document to write (default: stdout)")
	cmd.Flags().StringVar(&opts.ProgramName, "program", extract.DefaultProgramName, "Program name")
	cmd.Flags().StringVar(&opts.TrimPrefix, "trim-prefix", "", "Import path prefix removed from namespaces")
	cmd.Flags().StringVar(&opts.ErrorCodesName, "error-codes-name", "", "Name of error-code containers (default: ErrorCodes)")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "C", "", "Directory to load packages from")
	cmd.Flags().StringSliceVar(&opts.BuildFlags, "build-flags", nil, "Flags passed to the Go build system, e.g. -tags=contracts")
	return cmd
}
