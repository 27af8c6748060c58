package questionnaire

import "github.com/abhisek/screenwell/internal/store"

// answerRecordedMsg reports the outcome of appending an answer event.
type answerRecordedMsg struct {
	Err error
}

// draftSavedMsg reports the outcome of saving the session as a draft.
type draftSavedMsg struct {
	Err error
}

// resultSavedMsg carries the scored result after it was persisted. Err is
// set if saving failed; the record is still shown.
type resultSavedMsg struct {
	Record *store.ResultRecord
	Err    error
}
