package commands

import (
	"classutil-backend/internal/scrapers/classutil"
	"classutil-backend/internal/snapshot"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const maxSuggestions = 5

func newLookupCmd(state *env) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "lookup <key> [--snapshot <schedule.snap>]",
		Short: "Prints the sessions stored under a key, from a snapshot file or the latest scrape in the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var schedule *classutil.Schedule
			if snapshotPath != "" {
				var err error
				schedule, err = snapshot.ReadFile(snapshotPath)
				if err != nil {
					return err
				}
			} else {
				store, conn, err := openStore(state.cfg, state.tel)
				if err != nil {
					return err
				}
				defer conn.Close()
				schedule, _, err = store.Latest(cmd.Context())
				if err != nil {
					return err
				}
			}

			key := strings.TrimSpace(args[0])
			records, ok := schedule.Get(key)
			if !ok {
				key = strings.ToUpper(key)
				records, ok = schedule.Get(key)
			}
			if !ok {
				suggestions := classutil.Suggest(schedule.Keys(), key, maxSuggestions)
				if len(suggestions) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "did you mean: %s\n", strings.Join(suggestions, ", "))
				}
				return fmt.Errorf("no sessions found for '%s'", args[0])
			}

			renderSessions(cmd.OutOrStdout(), key, records)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Read the schedule from a snapshot file instead of the database.")
	return cmd
}
