package commands

import (
	"encoding/json"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
)

// routeJSON is the --json rendering of typegen.Route
type routeJSON struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Target string `json:"target"`
	Alias  bool   `json:"alias,omitempty"`
}

func newRoutesCmd(ro *rootOptions) *cobra.Command {
	var flags buildFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the wire route table",
		Long: `List the router path of every command, query and operation that survives
exclusion, followed by alias routes.

Examples:
  contractgen routes
  contractgen routes --json | jq '.[].path'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.project(ro)
			if err != nil {
				return err
			}
			prog, err := p.program(cmd.Context())
			if err != nil {
				return err
			}
			filtered, _ := typegen.Exclude(prog, p.cfg.Options().Exclude)
			routes := typegen.Routes(filtered)

			if jsonOutput {
				out := make([]routeJSON, 0, len(routes))
				for _, r := range routes {
					out = append(out, routeJSON{Kind: r.Kind.String(), Path: r.Path, Target: r.Target, Alias: r.Alias})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return errors.Wrap(err, "failed to encode routes")
				}
				return nil
			}

			if len(routes) == 0 {
				pterm.Info.Println("No routes")
				return nil
			}
			data := pterm.TableData{{"Kind", "Path", "Target"}}
			for _, r := range routes {
				data = append(data, []string{r.Kind.String(), r.Path, r.Target})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
	cmd.Flags().StringVar(&flags.ir, "ir", "", "IR document: local path or go-getter URL (default: ir from config)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output routes as JSON")
	return cmd
}
