// Package commands implements the contractgen command line.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// rootOptions holds the persistent flags every command sees
type rootOptions struct {
	verbosity  int
	jsonLog    bool
	configPath string
}

// NewRootCmd builds the contractgen command tree.
func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	root := &cobra.Command{
		Use:   "contractgen",
		Short: "Compile CQRS contracts into Dart and TypeScript clients",
		Long: `contractgen compiles a contract IR (commands, queries, operations, enums and
generic DTOs) into client code for multiple target languages.

Available commands:
  generate - Generate client code from the IR document
  check    - Verify generated files are up to date
  watch    - Regenerate whenever the IR or config changes
  routes   - Print the wire route table
  extract  - Build an IR document from Go packages
  init     - Write a default contractgen.toml
  version  - Show version information

Examples:
  contractgen generate --ir contracts.yaml      # Generate every configured language
  contractgen generate --lang dart --dry-run    # Preview Dart output
  contractgen check                             # CI: fail when output is stale
  contractgen extract ./api/... -o ir.yaml      # IR from Go source`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(ro.jsonLog, ro.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.ComponentLogger("cli").Debugw("logger initialized",
				"verbosity", logger.LevelName(ro.verbosity),
				"outputs", logger.EnabledCategories(ro.verbosity))
			return nil
		},
	}

	root.PersistentFlags().CountVarP(&ro.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().BoolVar(&ro.jsonLog, "log-json", false, "Write logs as JSON")
	root.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "Config file (default: nearest contractgen.toml)")

	root.AddCommand(
		newGenerateCmd(ro),
		newCheckCmd(ro),
		newWatchCmd(ro),
		newRoutesCmd(ro),
		newExtractCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// PrintError writes err and its hints for a human reader.
func PrintError(w io.Writer, err error) {
	label := "Error"
	if errors.IsNamingError(err) {
		label = "Naming error"
	}
	fmt.Fprintf(w, "%s: %v\n", label, err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
