package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"kinocache/internal/numerals"
	"kinocache/internal/querycache"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var showDetails bool

	cmd := &cobra.Command{
		Use:   "search <release-name>",
		Short: "Resolve a release name against the catalog",
		Long: "Search normalizes a release name the same way the daemon does, " +
			"resolves it through the shared cache, and prints the ranked candidates.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *querycache.Store) error {
				service, err := ctx.newService(store)
				if err != nil {
					return err
				}

				result, err := service.Search(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				titleCaser := cases.Title(language.English)
				fmt.Fprintf(out, "Query: %s\n", titleCaser.String(result.Query.Title))
				if result.Query.Year != nil {
					fmt.Fprintf(out, "Year: %d\n", *result.Query.Year)
				}
				if result.Query.Season != nil {
					fmt.Fprintf(out, "Season: %d\n", *result.Query.Season)
				}

				if len(result.Subjects) == 0 {
					fmt.Fprintln(out, "No candidates found")
					return nil
				}

				rows := make([][]string, 0, len(result.Subjects))
				for _, subject := range result.Subjects {
					rating := "-"
					if subject.Rating != nil && subject.Rating.Average > 0 {
						rating = fmt.Sprintf("%.1f", subject.Rating.Average)
					}
					rows = append(rows, []string{
						subject.ID,
						numerals.RewriteSeasonMarkers(subject.Title),
						subject.Year,
						rating,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Year", "Rating"}, rows))

				if !showDetails {
					return nil
				}

				details, err := service.Details(cmd.Context(), result.Subjects[0].ID, result.Query.Episode)
				if err != nil {
					return fmt.Errorf("resolve details for %s: %w", result.Subjects[0].ID, err)
				}

				fmt.Fprintf(out, "\nTitle: %s\n", details.Title)
				if details.OriginalTitle != "" {
					fmt.Fprintf(out, "Original Title: %s\n", details.OriginalTitle)
				}
				if details.Rating != nil {
					fmt.Fprintf(out, "Rating: %.1f\n", *details.Rating)
				}
				if len(details.Directors) > 0 {
					fmt.Fprintf(out, "Directors: %s\n", strings.Join(details.Directors, ", "))
				}
				if len(details.Genres) > 0 {
					fmt.Fprintf(out, "Genres: %s\n", strings.Join(details.Genres, ", "))
				}
				if details.Plot != "" {
					fmt.Fprintf(out, "Plot: %s\n", details.Plot)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "Also resolve details for the top candidate")
	return cmd
}
