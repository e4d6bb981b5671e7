package minutes

import (
	"strings"

	"github.com/minutedesk/mins-cli/pkg/meeting"
)

// ExtractActions parses action items back out of a rendered minutes
// document's action table. Items get fresh IDs; deadline "TBC" maps back to
// empty. Used to re-derive the action list when only the document survives.
func ExtractActions(doc string) []meeting.ActionItem {
	var out []meeting.ActionItem
	inSection := false

	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			inSection = trimmed == headingActions
			continue
		}
		if !inSection || !strings.HasPrefix(trimmed, "|") {
			continue
		}

		cells := splitTableRow(trimmed)
		if len(cells) != 3 {
			continue
		}
		if cells[0] == "Action" || strings.HasPrefix(cells[0], "---") || cells[0] == "No action items recorded" {
			continue
		}

		owner := cells[1]
		if owner == "–" {
			owner = ""
		}
		deadline := cells[2]
		if deadline == "TBC" || deadline == "–" {
			deadline = ""
		}

		item, err := meeting.NewActionItem(cells[0], owner, deadline)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func splitTableRow(row string) []string {
	row = strings.Trim(row, "|")
	parts := strings.Split(row, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
