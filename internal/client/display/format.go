package display

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// PrettyPrintJSON writes v as indented JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// ResultMessage is the line shown once a finished game's last disc lands.
func ResultMessage(status domain.Status) string {
	switch status {
	case domain.StatusWon:
		return Green + "You win!" + Reset
	case domain.StatusLost:
		return Red + "You lose." + Reset
	case domain.StatusDraw:
		return Yellow + "Draw, the board is full." + Reset
	}
	return ""
}

// GameLine formats one row of a game listing.
func GameLine(id int64, startedAt time.Time, durationSeconds *int, result domain.Status, moves int) string {
	duration := "-"
	if durationSeconds != nil {
		duration = (time.Duration(*durationSeconds) * time.Second).String()
	}
	return fmt.Sprintf("%6d  %s  %-7s  %-8s  %3d moves",
		id, startedAt.Local().Format("2006-01-02 15:04"), result, duration, moves)
}
