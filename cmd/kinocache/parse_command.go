package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"kinocache/internal/filename"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <release-name>...",
		Short: "Show how release names normalize into catalog queries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleCaser := cases.Title(language.English)

			rows := make([][]string, 0, len(args))
			for _, name := range args {
				parsed := filename.Parse(name)
				rows = append(rows, []string{
					name,
					titleCaser.String(parsed.Title),
					formatOptional(parsed.Year),
					formatOptional(parsed.Season),
					formatOptional(parsed.Episode),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Release Name", "Query", "Year", "Season", "Episode"}, rows))
			return nil
		},
	}
}

func formatOptional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
