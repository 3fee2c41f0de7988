package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

func newRecordsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record"},
		Short:   "Manage records",
	}

	cmd.AddCommand(
		newRecordsListCommand(g),
		newRecordsGetCommand(g),
		newRecordsCreateCommand(g),
		newRecordsUpdateCommand(g),
		newRecordsDeleteCommand(g),
	)

	return cmd
}

func newRecordsListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := g.client().Records().RetrieveAllRecords(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd, g, items)
		},
	}
}

func newRecordsGetCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			record, err := g.client().Records().RetrieveRecord(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecords(cmd, g, []model.Record{record})
		},
	}
}

type recordFlags struct {
	title  string
	artist string
	genre  string
	year   int
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Record title")
	cmd.Flags().StringVar(&f.artist, "artist", "", "Record artist")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Record genre")
	cmd.Flags().IntVar(&f.year, "year", 0, "Release year")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("artist")
}

func (f *recordFlags) record() model.Record {
	return model.Record{Title: f.title, Artist: f.artist, Genre: f.genre, Year: f.year}
}

func newRecordsCreateCommand(g *globals) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := g.client().Records().StoreNewRecord(cmd.Context(), flags.record())
			if err != nil {
				return err
			}

			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"id": id})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created record %d\n", id)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

func newRecordsUpdateCommand(g *globals) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a record",
		Long:  "Replace every attribute of an existing record. Omitted optional flags clear the attribute.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := g.client().Records().UpdateRecord(cmd.Context(), flags.record().WithIdentity(id)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated record %d\n", id)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

func newRecordsDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := g.client().Records().DeleteRecord(cmd.Context(), id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d\n", id)
			return err
		},
	}
}

func printRecords(cmd *cobra.Command, g *globals, items []model.Record) error {
	out := cmd.OutOrStdout()
	if g.jsonOutput {
		return writeJSON(out, items)
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "No records found")
		return err
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tARTIST\tGENRE\tYEAR")
	for _, r := range items {
		year := "-"
		if r.Year != 0 {
			year = strconv.Itoa(r.Year)
		}
		genre := r.Genre
		if genre == "" {
			genre = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", idString(r.ID), r.Title, r.Artist, genre, year)
	}
	return w.Flush()
}
