package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

// sessionStats aggregates completed sessions from the event log.
type sessionStats struct {
	Sessions  int
	Practiced int
	Correct   int
	Duration  time.Duration
	Last      time.Time
}

func summarizeSessions(events []store.SessionEvent) sessionStats {
	var st sessionStats
	for _, ev := range events {
		if ev.Action != store.ActionEnd {
			continue
		}
		st.Sessions++
		st.Practiced += ev.ItemsPracticed
		st.Correct += ev.CorrectAnswers
		st.Duration += time.Duration(ev.DurationSecs) * time.Second
		if ev.Timestamp.After(st.Last) {
			st.Last = ev.Timestamp
		}
	}
	return st
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice session statistics",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		events, err := e.events().SessionEvents(cmd.Context(), store.QueryOpts{UserID: e.userID})
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		st := summarizeSessions(events)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:            %s\n", e.userID)
		fmt.Fprintf(out, "Sessions:        %d\n", st.Sessions)
		fmt.Fprintf(out, "Items practiced: %d\n", st.Practiced)
		accuracy := 0.0
		if st.Practiced > 0 {
			accuracy = float64(st.Correct) / float64(st.Practiced) * 100
		}
		fmt.Fprintf(out, "Correct:         %d (%.0f%%)\n", st.Correct, accuracy)
		fmt.Fprintf(out, "Time practiced:  %s\n", st.Duration)
		if !st.Last.IsZero() {
			fmt.Fprintf(out, "Last session:    %s\n", st.Last.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}),
}
