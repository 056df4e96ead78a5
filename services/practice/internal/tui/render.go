package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/mytype/services/practice/internal/session"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	excessStyle    = incorrectStyle.Strikethrough(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// renderLineDiff colors the target line against what has been typed so
// far: matched runes, mismatched runes, the cursor position, and the
// untouched tail. Typed runes past the end of the target are appended
// struck through.
func renderLineDiff(target, input string) string {
	tr := []rune(target)
	in := []rune(input)

	var sb strings.Builder
	for i, r := range tr {
		switch {
		case i < len(in) && in[i] == r:
			sb.WriteString(correctStyle.Render(string(r)))
		case i < len(in):
			sb.WriteString(incorrectStyle.Render(string(r)))
		case i == len(in):
			sb.WriteString(cursorStyle.Render(string(r)))
		default:
			sb.WriteString(pendingStyle.Render(string(r)))
		}
	}
	if len(in) > len(tr) {
		sb.WriteString(excessStyle.Render(string(in[len(tr):])))
	}
	return sb.String()
}

// lineCorrectness scores input against target the same way the session
// engine does, for per-line feedback before submission.
func lineCorrectness(target, input string) (correct, total int) {
	tr := []rune(target)
	in := []rune(input)
	for i := 0; i < len(in) && i < len(tr); i++ {
		if in[i] == tr[i] {
			correct++
		}
	}
	return correct, len(tr)
}

func renderStats(st session.Stats) string {
	return dimStyle.Render(fmt.Sprintf("%ds elapsed · %.1f%% accuracy · %d CPM",
		st.ElapsedTime, st.Accuracy, st.CPM))
}
