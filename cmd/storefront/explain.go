package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe an error code such as E101.

Without an argument, every registered code is listed with its
category and message.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tCATEGORY\tMESSAGE")
				for _, code := range errors.GetAllCodes() {
					tmpl, _ := errors.GetTemplate(code)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", code, tmpl.Category, tmpl.Message)
				}
				return tw.Flush()
			}

			code := strings.ToUpper(args[0])
			tmpl, ok := errors.GetTemplate(code)
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", args[0])
			}
			fmt.Fprintf(out, "%s: %s (%s)\n\n", code, tmpl.Message, tmpl.Category)
			if tmpl.Detail != "" {
				fmt.Fprintf(out, "%s\n", tmpl.Detail)
			}
			return nil
		},
	}
}
