package questionnaire

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/result"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/components"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

// DraftsKept is how many unfinished sessions are kept across all
// instruments. Saving a draft drops the oldest beyond this.
const DraftsKept = 10

// QuestionnaireScreen presents one question at a time. It owns the current
// question index; the session only holds answers.
type QuestionnaireScreen struct {
	deps    screens.Deps
	inst    instrument.Instrument
	sess    *assessment.Session
	note    string
	index   int
	options components.OptionList

	confirmLeave bool
	finishing    bool
	errMsg       string
	warn         string
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)
var _ screen.InstrumentProvider = (*QuestionnaireScreen)(nil)
var _ screen.BackHandler = (*QuestionnaireScreen)(nil)

// New starts a fresh session for inst.
func New(deps screens.Deps, inst instrument.Instrument, note string) *QuestionnaireScreen {
	s := &QuestionnaireScreen{
		deps: deps.WithDefaults(),
		inst: inst,
		sess: assessment.New(inst),
		note: note,
	}
	s.syncOptions()
	return s
}

// Resume continues a saved draft at its first unanswered question.
func Resume(deps screens.Deps, inst instrument.Instrument, draft *store.DraftRecord) (*QuestionnaireScreen, error) {
	sess, err := assessment.Restore(inst, draft.SessionID, draft.StartedAt, draft.Answers)
	if err != nil {
		return nil, err
	}
	s := &QuestionnaireScreen{
		deps: deps.WithDefaults(),
		inst: inst,
		sess: sess,
		note: draft.Note,
	}
	if idx, ok := sess.NextUnanswered(); ok {
		s.index = idx
	} else if draft.CurrentIndex >= 0 && draft.CurrentIndex < inst.Len() {
		s.index = draft.CurrentIndex
	}
	s.syncOptions()
	return s, nil
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionnaireScreen) Title() string {
	return "Questionnaire"
}

func (s *QuestionnaireScreen) InstrumentTitle() string {
	return s.inst.Title
}

// HandlesBack keeps Esc from discarding answers without asking.
func (s *QuestionnaireScreen) HandlesBack() bool {
	return s.sess.AnsweredCount() > 0 || s.confirmLeave
}

// Session exposes the underlying session.
func (s *QuestionnaireScreen) Session() *assessment.Session {
	return s.sess
}

// Index returns the current question index.
func (s *QuestionnaireScreen) Index() int {
	return s.index
}

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if s.confirmLeave {
		return []layout.KeyHint{
			{Key: "S", Description: "Save draft"},
			{Key: "Y", Description: "Discard"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4/Enter", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "X", Description: "Clear"},
		{Key: "S", Description: "Save & exit"},
		{Key: "F", Description: "Finish"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.OptionChosenMsg:
		return s.handleAnswer(msg)

	case answerRecordedMsg:
		if msg.Err != nil {
			s.deps.Log.Warn("record answer event", zap.String("session", s.sess.ID()), zap.Error(msg.Err))
		}
		return s, nil

	case draftSavedMsg:
		if msg.Err != nil {
			s.deps.Log.Error("save draft", zap.String("session", s.sess.ID()), zap.Error(msg.Err))
			s.warn = "Draft could not be saved: " + msg.Err.Error()
			s.confirmLeave = false
			return s, nil
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }

	case resultSavedMsg:
		if msg.Err != nil {
			s.deps.Log.Error("save result", zap.String("session", s.sess.ID()), zap.Error(msg.Err))
		}
		next := result.New(s.deps, s.inst, msg.Record, msg.Err)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.finishing {
			return s, nil
		}
		if s.confirmLeave {
			return s.handleConfirmKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuestionnaireScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if s.sess.AnsweredCount() == 0 {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.confirmLeave = true
		return s, nil
	case "left", "h":
		s.move(s.index - 1)
		return s, nil
	case "right", "l":
		s.move(s.index + 1)
		return s, nil
	case "x", "backspace", "delete":
		return s, s.clearCurrent()
	case "s":
		return s, s.saveDraft()
	case "f":
		if s.sess.AnsweredCount() == 0 {
			s.warn = "Answer at least one question before finishing."
			return s, nil
		}
		return s, s.finish()
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *QuestionnaireScreen) handleConfirmKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "s":
		return s, s.saveDraft()
	case "y":
		s.confirmLeave = false
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "n", "esc":
		s.confirmLeave = false
	}
	return s, nil
}

func (s *QuestionnaireScreen) handleAnswer(msg components.OptionChosenMsg) (screen.Screen, tea.Cmd) {
	if err := s.sess.SetAnswer(msg.QuestionID, msg.Value); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.warn = ""

	value := msg.Value
	record := s.recordEvent(store.AnswerEventData{
		SessionID:    s.sess.ID(),
		InstrumentID: s.inst.ID,
		QuestionID:   msg.QuestionID,
		Action:       store.AnswerSet,
		Value:        &value,
	})

	if s.sess.IsComplete() {
		return s, tea.Batch(record, s.finish())
	}

	if s.index < s.inst.Len()-1 {
		s.move(s.index + 1)
	} else if idx, ok := s.sess.NextUnanswered(); ok {
		s.move(idx)
	}
	return s, record
}

func (s *QuestionnaireScreen) clearCurrent() tea.Cmd {
	q := s.inst.Questions[s.index]
	if _, ok := s.sess.Answer(q.ID); !ok {
		return nil
	}
	if err := s.sess.ClearAnswer(q.ID); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.syncOptions()
	return s.recordEvent(store.AnswerEventData{
		SessionID:    s.sess.ID(),
		InstrumentID: s.inst.ID,
		QuestionID:   q.ID,
		Action:       store.AnswerClear,
	})
}

func (s *QuestionnaireScreen) move(idx int) {
	if idx < 0 || idx >= s.inst.Len() {
		return
	}
	s.index = idx
	s.syncOptions()
}

func (s *QuestionnaireScreen) syncOptions() {
	q := s.inst.Questions[s.index]
	v, ok := s.sess.Answer(q.ID)
	s.options = components.NewOptionList(s.deps.Theme, q, v, ok)
}

func (s *QuestionnaireScreen) recordEvent(data store.AnswerEventData) tea.Cmd {
	events := s.deps.Events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return answerRecordedMsg{Err: events.AppendAnswerEvent(context.Background(), data)}
	}
}

func (s *QuestionnaireScreen) saveDraft() tea.Cmd {
	drafts := s.deps.Drafts
	if drafts == nil {
		s.warn = "No database is open, so the draft cannot be saved."
		s.confirmLeave = false
		return nil
	}
	rec := &store.DraftRecord{
		SessionID:    s.sess.ID(),
		InstrumentID: s.inst.ID,
		Answers:      s.sess.Snapshot(),
		CurrentIndex: s.index,
		Note:         s.note,
		StartedAt:    s.sess.StartedAt(),
	}
	log := s.deps.Log
	return func() tea.Msg {
		ctx := context.Background()
		if err := drafts.Save(ctx, rec); err != nil {
			return draftSavedMsg{Err: err}
		}
		if err := drafts.Prune(ctx, DraftsKept); err != nil {
			log.Warn("prune drafts", zap.Error(err))
		}
		return draftSavedMsg{}
	}
}

// finish scores the session and persists the result. Scoring happens here,
// synchronously, so configuration errors surface on this screen.
func (s *QuestionnaireScreen) finish() tea.Cmd {
	res, err := s.deps.Engine.Score(s.sess, s.inst)
	if err != nil {
		s.errMsg = fmt.Sprintf("This questionnaire cannot be scored: %v", err)
		return nil
	}
	s.finishing = true

	rec := &store.ResultRecord{
		SessionID:   s.sess.ID(),
		Note:        s.note,
		Answers:     s.sess.Snapshot(),
		StartedAt:   s.sess.StartedAt(),
		CompletedAt: time.Now(),
		Result:      res,
	}
	results, drafts := s.deps.Results, s.deps.Drafts
	return func() tea.Msg {
		ctx := context.Background()
		if results == nil {
			return resultSavedMsg{Record: rec}
		}
		if err := results.Save(ctx, rec); err != nil {
			return resultSavedMsg{Record: rec, Err: err}
		}
		if drafts != nil {
			if err := drafts.Delete(ctx, rec.SessionID); err != nil {
				return resultSavedMsg{Record: rec, Err: fmt.Errorf("result saved, but removing its draft failed: %w", err)}
			}
		}
		return resultSavedMsg{Record: rec}
	}
}
