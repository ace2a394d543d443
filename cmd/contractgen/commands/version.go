package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show contractgen version information",
		Long:  `Display version, build time, commit hash, platform and supported IR schema range.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			if jsonOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to format version info")
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
			fmt.Fprintf(out, "IR schema: %s\n", info.IRSchema)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output version info as JSON")
	return cmd
}
