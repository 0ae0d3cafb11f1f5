// Package onboarding tracks the first-week quest checklist: scan a bottle in,
// share an invitation, open a bottle. Completion flags persist per user in
// the injected key-value store and only ever move false to true.
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/kvstore"
	"cellaret.dev/Cellaret/pkg/model"
)

const (
	storageKeyPrefix = "wine_cellar_onboarding:"
	questWindowDays  = 7
)

const (
	TaskScan   = "scan"
	TaskInvite = "invite"
	TaskOpen   = "open"
)

// taskOrder fixes which edge is surfaced when several tasks flip in the same
// pass: only the first one fires, the rest are caught on a later pass.
var taskOrder = []string{TaskScan, TaskInvite, TaskOpen}

type TaskFlags struct {
	Scan   bool `json:"scan"`
	Invite bool `json:"invite"`
	Open   bool `json:"open"`
}

func (f TaskFlags) done(task string) bool {
	switch task {
	case TaskScan:
		return f.Scan
	case TaskInvite:
		return f.Invite
	case TaskOpen:
		return f.Open
	}

	return false
}

func (f *TaskFlags) mark(task string) {
	switch task {
	case TaskScan:
		f.Scan = true
	case TaskInvite:
		f.Invite = true
	case TaskOpen:
		f.Open = true
	}
}

func (f TaskFlags) count() int {
	total := 0

	for _, task := range taskOrder {
		if f.done(task) {
			total++
		}
	}

	return total
}

// State is the persisted record. Field names match the original storage
// payload so an existing record keeps parsing.
type State struct {
	StartDate        string    `json:"startDate"`
	Dismissed        bool      `json:"dismissed"`
	CelebrationShown bool      `json:"celebrationShown"`
	PrevCompleted    TaskFlags `json:"prevCompleted"`
}

// Result is one observation pass over the current inventory.
type Result struct {
	Tasks          TaskFlags `json:"tasks"`
	CompletedCount int       `json:"completed_count"`
	AllDone        bool      `json:"all_done"`
	Encouragement  string    `json:"encouragement,omitempty"`
	Celebration    bool      `json:"celebration"`
	Visible        bool      `json:"visible"`
}

type Quest struct {
	store  kvstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewQuest(store kvstore.Store, logger *zap.Logger) *Quest {
	return &Quest{store: store, logger: logger, now: time.Now}
}

// Observe runs one pass: derives task status from the inventory and the
// invitation fetch, surfaces at most one encouragement edge, fires the
// one-time celebration, and persists the updated flags. A failed invitation
// fetch counts as "not yet done", never as an error.
func (q *Quest) Observe(ctx context.Context, lineUserID string, items []*model.WineItem, invitationCount int, invitationErr error) (*Result, error) {
	state := q.loadOrInit(ctx, lineUserID)

	if invitationErr != nil {
		q.logger.Warn("invitation lookup failed, treating invite task as incomplete",
			zap.String("line_user_id", lineUserID), zap.Error(invitationErr))
	}

	observed := TaskFlags{
		Scan:   anyRecognizedByAI(items),
		Invite: invitationErr == nil && invitationCount > 0,
		Open:   anyOpened(items),
	}

	// Persisted completions are monotonic: a transient fetch gap must not
	// take a task back to undone.
	effective := TaskFlags{
		Scan:   observed.Scan || state.PrevCompleted.Scan,
		Invite: observed.Invite || state.PrevCompleted.Invite,
		Open:   observed.Open || state.PrevCompleted.Open,
	}

	result := &Result{
		Tasks:          effective,
		CompletedCount: effective.count(),
	}
	result.AllDone = result.CompletedCount == len(taskOrder)

	dirty := false

	for _, task := range taskOrder {
		if effective.done(task) && !state.PrevCompleted.done(task) {
			result.Encouragement = task
			state.PrevCompleted.mark(task)
			dirty = true

			break
		}
	}

	if result.AllDone && !state.CelebrationShown {
		result.Celebration = true
		state.CelebrationShown = true
		dirty = true
	}

	result.Visible = q.visible(state, result)

	if dirty {
		if err := q.persist(ctx, lineUserID, state); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Dismiss hides the panel for good. There is no un-dismiss path.
func (q *Quest) Dismiss(ctx context.Context, lineUserID string) error {
	state := q.loadOrInit(ctx, lineUserID)
	state.Dismissed = true

	return q.persist(ctx, lineUserID, state)
}

// visible gates rendering: dismissed panels stay hidden, the quest expires
// after its first-week window, and a fully completed quest shows exactly one
// celebration before disappearing.
func (q *Quest) visible(state State, result *Result) bool {
	if state.Dismissed {
		return false
	}

	if !q.withinFirstWeek(state) {
		return false
	}

	if result.AllDone && state.CelebrationShown && !result.Celebration {
		return false
	}

	return true
}

func (q *Quest) withinFirstWeek(state State) bool {
	start, err := time.Parse("2006-01-02", state.StartDate)
	if err != nil {
		return false
	}

	return q.now().Sub(start).Hours()/24 <= questWindowDays
}

func (q *Quest) loadOrInit(ctx context.Context, lineUserID string) State {
	raw, err := q.store.Get(ctx, storageKeyPrefix+lineUserID)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			q.logger.Warn("reading onboarding state failed, reinitializing",
				zap.String("line_user_id", lineUserID), zap.Error(err))
		}

		return q.initialState(ctx, lineUserID)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		q.logger.Warn("corrupt onboarding state, reinitializing",
			zap.String("line_user_id", lineUserID), zap.Error(err))

		return q.initialState(ctx, lineUserID)
	}

	return state
}

func (q *Quest) initialState(ctx context.Context, lineUserID string) State {
	state := State{StartDate: q.now().Format("2006-01-02")}

	if err := q.persist(ctx, lineUserID, state); err != nil {
		q.logger.Warn("persisting initial onboarding state failed",
			zap.String("line_user_id", lineUserID), zap.Error(err))
	}

	return state
}

func (q *Quest) persist(ctx context.Context, lineUserID string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return q.store.Set(ctx, storageKeyPrefix+lineUserID, string(raw))
}

func anyRecognizedByAI(items []*model.WineItem) bool {
	for _, item := range items {
		if item.RecognizedByAI == 1 {
			return true
		}
	}

	return false
}

func anyOpened(items []*model.WineItem) bool {
	for _, item := range items {
		if item.BottleStatus == model.BottleOpened {
			return true
		}
	}

	return false
}
