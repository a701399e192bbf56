package tui

import (
	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/team"
)

type errMsg struct{ error }

type entryOpenedMsg struct {
	Entry   repository.Entry
	Created bool
}

type entrySavedMsg struct {
	Date    string
	Content string
	Entry   repository.Entry
}

type entrySaveFailedMsg struct {
	Date string
	Err  error
}

type entryReadMsg struct {
	Entry repository.Entry
}

type entryDeletedMsg struct {
	Date  string
	Count int64
}

type wipedMsg struct {
	Count int64
}

// previewsMsg carries a listing for the list navigator. Empty is printed
// instead of entering the list when there are no previews.
type previewsMsg struct {
	Title    string
	Empty    string
	Previews []repository.Preview
}

type rosterMsg struct {
	Op       team.Operation
	Selector string
	Roster   []team.Employee
}

type teamCommittedMsg struct {
	Message string
}
