package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/discman/internal/model"
)

// ShareDateLayout is the date format used in shared results.
const ShareDateLayout = "Jan 02, 2006"

// FormatRelative renders a score relative to par: "Even", "+2" or "-1".
func FormatRelative(score int) string {
	switch {
	case score == 0:
		return "Even"
	case score > 0:
		return "+" + strconv.Itoa(score)
	default:
		return strconv.Itoa(score)
	}
}

// ShareText renders a ranked leaderboard as plain text for sharing.
// leaderboard must already be ranked; positions follow slice order.
func ShareText(courseName string, date time.Time, leaderboard []PlayerScore, holes []model.Hole) string {
	var b strings.Builder

	b.WriteString("🥏 Disc Golf Scores\n")
	fmt.Fprintf(&b, "Course: %s\n", courseName)
	fmt.Fprintf(&b, "Date: %s\n", date.Format(ShareDateLayout))
	fmt.Fprintf(&b, "Total Par: %d\n", model.TotalPar(holes))
	b.WriteString("\n")

	b.WriteString("Final Results:\n")
	for i, ps := range leaderboard {
		fmt.Fprintf(&b, "%d. %s: %s (%d throws)\n", i+1, ps.Player.Name, FormatRelative(ps.TotalScore), ps.TotalThrows)
	}

	return b.String()
}
