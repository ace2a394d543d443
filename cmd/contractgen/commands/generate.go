package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen"
)

func newGenerateCmd(ro *rootOptions) *cobra.Command {
	var flags buildFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate client code from the IR document",
		Long: `Generate Dart DTOs and a TypeScript client from a contract IR document.

The IR may be a local file or any go-getter source (https://, git::, s3::, gcs::).
Generation is all-or-nothing: on any error no file is written.

Examples:
  contractgen generate                                   # Use contractgen.toml
  contractgen generate --ir contracts.yaml -o lib/gen    # Explicit input and output
  contractgen generate --lang typescript                 # One language only
  contractgen generate --dry-run                         # List files without writing`,
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

			if dryRun {
				pterm.Warning.Println("DRY RUN MODE: no files will be written")
				return printFiles(result, p.outDir)
			}

			written, err := p.write(cmd.Context(), p.outDir, result)
			if err != nil {
				return err
			}
			if logger.ShouldOutput(ro.verbosity, logger.OutputFiles) {
				if err := printFiles(result, p.outDir); err != nil {
					return err
				}
			}
			if logger.ShouldOutput(ro.verbosity, logger.OutputDeclarations) {
				if err := printNames(result); err != nil {
					return err
				}
			}
			pterm.Success.Printf("Generated %d files in %s (%s)\n",
				len(written), p.outDir, summary(result))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compile and list files without writing them")
	return cmd
}

func printFiles(result *typegen.Result, dir string) error {
	data := pterm.TableData{{"Language", "File", "Bytes"}}
	for _, f := range result.Files {
		data = append(data, []string{f.Language, filepath.Join(dir, f.Name), fmt.Sprint(len(f.Content))})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printNames renders each language's name table: qualified declaration to
// emitted name.
func printNames(result *typegen.Result) error {
	data := pterm.TableData{{"Language", "Declaration", "Emitted"}}
	for _, lang := range languagesOf(result) {
		table, ok := result.Names[lang]
		if !ok {
			continue
		}
		for _, e := range table.Entries() {
			data = append(data, []string{lang, e.Qualified, e.Name})
		}
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// summary reports declaration counts, e.g. "dart: 4 declarations, typescript: 4 declarations".
func summary(result *typegen.Result) string {
	var parts []string
	for _, lang := range languagesOf(result) {
		parts = append(parts, fmt.Sprintf("%s: %d declarations", lang, result.Declarations[lang]))
	}
	return strings.Join(parts, ", ")
}
