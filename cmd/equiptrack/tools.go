package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/honlab/equiptrack/internal/catalog"
	"github.com/honlab/equiptrack/internal/metrics"
	"github.com/honlab/equiptrack/internal/model"
)

func newPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Permanently remove soft-deleted equipment whose retention has run out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := a.cfg.RetentionPolicy()
			if err != nil {
				return err
			}

			database, svc, err := openService(a.cfg.DBPath, metrics.New())
			if err != nil {
				return err
			}
			defer database.Close()

			res, err := svc.PurgeExpired(cmd.Context(), policy)
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d item(s), %d remaining\n", res.Purged, res.Remaining)
			if err != nil {
				return err
			}
			pruneTokens(cmd.Context(), database)
			return nil
		},
	}
}

func newRoomsCmd(_ *app) *cobra.Command {
	var buildingType string

	cmd := &cobra.Command{
		Use:   "rooms [query]",
		Short: "Search the room catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt := model.BuildingType(buildingType)
			if bt != "" && !bt.Valid() {
				return fmt.Errorf("unknown building type %q", buildingType)
			}

			var query string
			if len(args) > 0 {
				query = args[0]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE")
			for _, r := range catalog.Default().Search(query, bt) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.BuildingType)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&buildingType, "type", "t", "", "only rooms of this building type (warehouse, classroom, office)")
	return cmd
}
