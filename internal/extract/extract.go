// Package extract parses free-text assistant replies into a structured task
// breakdown and cost estimate. It is a standalone parser over a small
// grammar: heading := "## <title> (<N> hours)", body := text until the next
// heading or the "Total estimated" sentinel.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"buildpad.app/concierge/internal/model"
)

var taskHeading = regexp.MustCompile(`##\s*(.+?)\s*\((\d+)\s*hours?\)`)

const (
	totalSentinel = "Total estimated"

	// The scope text is a fixed placeholder rather than derived from the
	// model's scope-stage prose; the breakdown and estimate carry the detail.
	scopePlaceholder = "Custom application as discussed"

	// Filled in when a heading has no body text before the next heading.
	descriptionPlaceholder = "Task details"
)

// Hourly rates and day lengths behind the two displayed prices.
const (
	standardRate   = 100
	fastTrackRate  = 150
	standardHours  = 8  // billable hours per standard day
	fastTrackHours = 16 // per priority day, two developers in parallel
)

// Parse scans reply text for the task grammar. It returns nil when no task
// headings match; the caller keeps whatever result it already had.
func Parse(text string) *model.ProjectResult {
	matches := taskHeading.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tasks := make([]model.Task, 0, len(matches))
	totalHours := 0

	for i, m := range matches {
		title := strings.TrimSpace(text[m[2]:m[3]])
		hours, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			// Digit runs beyond int range; skip rather than book 0 hours.
			continue
		}

		// Description runs from the end of this heading to the start of the
		// next one; the last task stops at the sentinel when present.
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		} else if idx := strings.Index(text[m[1]:], totalSentinel); idx >= 0 {
			bodyEnd = m[1] + idx
		}

		description := strings.Trim(text[m[1]:bodyEnd], " \t\r\n")
		if description == "" {
			description = descriptionPlaceholder
		}

		tasks = append(tasks, model.Task{
			ID:          len(tasks) + 1,
			Title:       title,
			Description: description,
			Hours:       hours,
		})
		totalHours += hours
	}

	if len(tasks) == 0 {
		return nil
	}

	return &model.ProjectResult{
		Scope:      scopePlaceholder,
		Tasks:      tasks,
		TotalHours: totalHours,
		Estimate:   EstimateFor(totalHours),
	}
}

// EstimateFor derives the two pre-formatted price strings from total hours.
func EstimateFor(totalHours int) model.Estimate {
	standardDays := ceilDiv(totalHours, standardHours)
	fastDays := ceilDiv(totalHours, fastTrackHours)
	return model.Estimate{
		Standard:  fmt.Sprintf("$%d (%d days)", totalHours*standardRate, standardDays),
		FastTrack: fmt.Sprintf("$%d (%d days priority)", totalHours*fastTrackRate, fastDays),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
