package board

import (
	"fmt"
	"strings"
)

// Stage is one of the three board columns. The string value is the persisted
// wire name.
type Stage string

// Stage constants.
const (
	StageToDo       Stage = "todo"
	StageInProgress Stage = "inprogress"
	StageDone       Stage = "done"
)

// Stages lists the columns in board order.
var Stages = []Stage{StageToDo, StageInProgress, StageDone}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	switch s {
	case StageToDo, StageInProgress, StageDone:
		return true
	}

	return false
}

// Title returns the column heading.
func (s Stage) Title() string {
	switch s {
	case StageToDo:
		return "To Do"
	case StageInProgress:
		return "In Progress"
	case StageDone:
		return "Done"
	}

	return string(s)
}

// ParseStage accepts wire names and common spellings ("to do", "in-progress",
// "in_progress"), case-insensitive.
func ParseStage(s string) (Stage, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)

	switch norm {
	case "todo":
		return StageToDo, nil
	case "inprogress", "doing", "wip":
		return StageInProgress, nil
	case "done":
		return StageDone, nil
	}

	return "", fmt.Errorf("%w: %q (must be todo|inprogress|done)", ErrInvalidStage, s)
}

// Priority is the urgency of a ticket. The string value is the persisted wire
// name.
type Priority string

// Priority constants.
const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baja"
)

// Priorities lists priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}

	return false
}

// Label returns the English display name.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}

	return string(p)
}

// ParsePriority accepts English names and the persisted wire names,
// case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "alta", "h":
		return PriorityHigh, nil
	case "medium", "media", "m":
		return PriorityMedium, nil
	case "low", "baja", "l":
		return PriorityLow, nil
	}

	return "", fmt.Errorf("%w: %q (must be high|medium|low)", ErrInvalidPriority, s)
}
