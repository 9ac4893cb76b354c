package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ramanasai/freeflow/internal/timefmt"
)

// FormatTimerDone is the title and body shown when a session ends.
func FormatTimerDone(seconds int) (string, string) {
	title := "Freeflow: time's up"
	msg := fmt.Sprintf("%s session finished. Keep flowing or take a break.", timefmt.Format(seconds))
	return title, msg
}

// TimerDone raises the session-finished alert.
func TimerDone(seconds int) error {
	title, msg := FormatTimerDone(seconds)
	return beeep.Alert(title, msg, "")
}
