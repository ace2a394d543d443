package commands

import (
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
)

func newCheckCmd(ro *rootOptions) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check if generated files are up to date",
		Long: `Generate into a temporary directory, run the configured formatters and
compare the result with the output directory.

Exit codes:
  0 - Generated files are up to date
  1 - Files are out of date or generation failed

Examples:
  contractgen check            # CI gate
  contractgen check -o lib/gen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.project(ro)
			if err != nil {
				return err
			}
			result, err := p.compile(cmd.Context())
			if err != nil {
				return err
			}

			tempDir, err := os.MkdirTemp("", "contractgen-check-*")
			if err != nil {
				return errors.Wrap(err, "failed to create temp directory")
			}
			defer os.RemoveAll(tempDir)

			if _, err := p.write(cmd.Context(), tempDir, result); err != nil {
				return err
			}
			check, err := typegen.CompareDirectories(tempDir, p.outDir)
			if err != nil {
				return err
			}
			if check.UpToDate {
				pterm.Success.Println("Generated files are up to date")
				return nil
			}

			pterm.Error.Println("Generated files are out of date")
			langs := make([]string, 0, len(check.Differences))
			for lang := range check.Differences {
				langs = append(langs, lang)
			}
			sort.Strings(langs)
			for _, lang := range langs {
				for _, file := range check.Differences[lang] {
					pterm.Printf("  changed: %s\n", file)
				}
			}
			for _, file := range check.Missing {
				pterm.Printf("  missing: %s\n", file)
			}
			return errors.WithHint(errors.New("generated files are out of date"),
				"run `contractgen generate` to update them")
		},
	}
	flags.register(cmd)
	return cmd
}
