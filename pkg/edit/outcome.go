package edit

// Outcome names what a gesture or command did.
type Outcome int

const (
	OutcomeNone      Outcome = iota // gesture ended with no model change
	OutcomeMoved                    // a rectangle was moved
	OutcomeResized                  // a rectangle was resized
	OutcomePanned                   // the view was panned
	OutcomeNeedsName                // a drawn rectangle awaits CommitCreate
	OutcomeTooSmall                 // a drawn rectangle was under MinCreateSize
	OutcomeMenu                     // right press with a selection

	OutcomeCreated
	OutcomeCancelled
	OutcomeRenamed
	OutcomeDeleted
	OutcomeTagsEdited
	OutcomeUndone
	OutcomeNothing // command had nothing to act on
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:       "none",
	OutcomeMoved:      "moved",
	OutcomeResized:    "resized",
	OutcomePanned:     "panned",
	OutcomeNeedsName:  "needs name",
	OutcomeTooSmall:   "too small",
	OutcomeMenu:       "menu",
	OutcomeCreated:    "created",
	OutcomeCancelled:  "cancelled",
	OutcomeRenamed:    "renamed",
	OutcomeDeleted:    "deleted",
	OutcomeTagsEdited: "tags edited",
	OutcomeUndone:     "undone",
	OutcomeNothing:    "nothing",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Mutated reports whether the outcome changed the region list.
func (o Outcome) Mutated() bool {
	switch o {
	case OutcomeMoved, OutcomeResized, OutcomeCreated, OutcomeRenamed,
		OutcomeDeleted, OutcomeTagsEdited, OutcomeUndone:
		return true
	}
	return false
}
