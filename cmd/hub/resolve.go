package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hub"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Show the module/controller/action a path dispatches to",
		Example: `  hub resolve /shop/cart/add
  hub resolve --json / /shop /shop/cart/item/add`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defaults := hub.Route{
				Module:     cfg.Dispatch.DefaultModule,
				Controller: cfg.Dispatch.DefaultController,
				Action:     cfg.Dispatch.DefaultAction,
			}

			out := cmd.OutOrStdout()
			if asJSON {
				routes := make(map[string]hub.Route, len(args))
				for _, p := range args {
					routes[p] = hub.Resolve(p, defaults)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}

			for _, p := range args {
				r := hub.Resolve(p, defaults)
				note := ""
				if hub.IsReserved(r.Action) {
					note = " (not dispatchable)"
				}
				if _, err := fmt.Fprintf(out, "%s\t%s%s\n", p, r, note); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print routes as JSON")
	return cmd
}
