package session

// State tags where resolved text came from.
type State int

const (
	// StateDerived text is the substitution of the template with the current bindings.
	StateDerived State = iota
	// StateOverridden text was edited by hand and is no longer re-derived.
	StateOverridden
)

func (s State) String() string {
	if s == StateOverridden {
		return "overridden"
	}
	return "derived"
}

// Resolved is the subject or body text with its origin.
type Resolved struct {
	Text  string
	State State
}

// Derived tags text as a pure substitution result.
func Derived(text string) Resolved {
	return Resolved{Text: text, State: StateDerived}
}

// Overridden tags text as a manual edit.
func Overridden(text string) Resolved {
	return Resolved{Text: text, State: StateOverridden}
}

// IsOverridden reports whether the text was edited by hand.
func (r Resolved) IsOverridden() bool {
	return r.State == StateOverridden
}
