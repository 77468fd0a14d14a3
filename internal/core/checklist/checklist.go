// Package checklist packs maintenance-task completion into the free-text detail
// field of a user entry and recovers it for editing.
//
// The encoded string is the persisted source of truth. Decode is best effort:
// task names containing ", " or parentheses do not round-trip.
package checklist

import (
	"strings"
	"time"
)

// Prefix marks a detail field produced by Encode.
const Prefix = "Mantenimiento: "

const separator = ", "

// DefaultTasks is the maintenance checklist used when none is configured.
var DefaultTasks = []string{
	"Borrar Temporales",
	"Actualizaciones Windows",
	"Revisión Antivirus",
	"Limpieza Física",
	"Optimización Disco",
	"Revisión Cables",
}

// Mark is the completion state of one task. Time is optional ("15:04").
type Mark struct {
	Done bool   `json:"done"`
	Time string `json:"time,omitempty"`
}

// State maps task name to its mark. Missing tasks are not done.
type State map[string]Mark

// NewState returns a state with every task not done.
func NewState(tasks []string) State {
	s := make(State, len(tasks))
	for _, t := range tasks {
		s[t] = Mark{}
	}
	return s
}

// Encode renders the completed tasks, in configured order, as a detail string.
// Returns "" when nothing is completed.
func Encode(tasks []string, state State) string {
	var done []string
	for _, t := range tasks {
		m := state[t]
		if !m.Done {
			continue
		}
		if m.Time != "" {
			done = append(done, t+" ("+m.Time+")")
		} else {
			done = append(done, t)
		}
	}
	if len(done) == 0 {
		return ""
	}
	return Prefix + strings.Join(done, separator)
}

// Decode recovers checklist state from a detail string.
// Details without the prefix, and tokens naming no configured task, are ignored.
func Decode(tasks []string, detail string) State {
	state := NewState(tasks)
	if !strings.HasPrefix(detail, Prefix) {
		return state
	}

	for _, token := range strings.Split(strings.TrimPrefix(detail, Prefix), separator) {
		if name, at, ok := splitTimed(token); ok {
			if _, known := state[name]; known {
				state[name] = Mark{Done: true, Time: at}
				continue
			}
		}
		if _, known := state[token]; known {
			state[token] = Mark{Done: true}
		}
	}
	return state
}

// IsEncoded reports whether detail carries checklist state.
func IsEncoded(detail string) bool {
	return strings.HasPrefix(detail, Prefix)
}

// Complete marks task done at now. Unknown tasks are ignored.
func Complete(state State, task string, now time.Time) {
	if _, ok := state[task]; !ok {
		return
	}
	state[task] = Mark{Done: true, Time: now.Format("15:04")}
}

// Clear marks task not done.
func Clear(state State, task string) {
	if _, ok := state[task]; !ok {
		return
	}
	state[task] = Mark{}
}

// splitTimed parses "<task> (<time>)", splitting on the last " (".
func splitTimed(token string) (string, string, bool) {
	if !strings.HasSuffix(token, ")") {
		return "", "", false
	}
	i := strings.LastIndex(token, " (")
	if i < 0 {
		return "", "", false
	}
	return token[:i], token[i+2 : len(token)-1], true
}
