package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/app/routes"
	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/router"
)

// routeInfo describes one table entry for display.
type routeInfo struct {
	Name   string   `json:"name,omitempty"`
	Path   string   `json:"path"`
	Params []string `json:"params,omitempty"`
	Props  bool     `json:"props"`
	URL    string   `json:"url"`
}

func routesCmd(global *globalOptions) *cobra.Command {
	var (
		asJSON bool
		name   string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the route table in match order (first match wins).

The URL column shows how each pattern appears under the configured
base path and history mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(global.configDir, newLogger(cmd.ErrOrStderr(), global.verbose))
			if err != nil {
				return err
			}
			table, err := routes.Table()
			if err != nil {
				return err
			}

			infos := describeRoutes(table, fc.NewHistory())
			if name != "" {
				if infos, err = selectRoute(table, infos, name); err != nil {
					return err
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tPARAMS\tPROPS\tURL")
			for _, ri := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
					dash(ri.Name), ri.Path, dash(strings.Join(ri.Params, ",")), ri.Props, ri.URL)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Show only the named route")

	return cmd
}

func describeRoutes(table *router.Table, history router.History) []routeInfo {
	entries := table.Routes()
	infos := make([]routeInfo, 0, len(entries))
	for i, r := range entries {
		infos = append(infos, routeInfo{
			Name:   r.Name,
			Path:   r.Path,
			Params: table.Params(i),
			Props:  r.Props,
			URL:    history.Href(r.Path),
		})
	}
	return infos
}

// selectRoute narrows infos to the route registered under name.
func selectRoute(table *router.Table, infos []routeInfo, name string) ([]routeInfo, error) {
	r, ok := table.Lookup(name)
	if !ok {
		return nil, errors.New("E010").WithDetailf("no route named %q", name)
	}
	for _, ri := range infos {
		if ri.Path == r.Path {
			return []routeInfo{ri}, nil
		}
	}
	return nil, errors.New("E010").WithDetailf("no route named %q", name)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
