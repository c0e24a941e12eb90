package session

import (
	"context"
	"sync"
	"time"

	"locserver/allocation"
	"locserver/models"
	"locserver/rounds"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Caller-visible error codes and their Vietnamese messages.
const (
	CodeAttemptsExhausted = "AttemptsExhausted"
	CodePoolExhausted     = "PoolExhausted"
	CodeRoomClosed        = "RoomClosed"
	CodePlayerNotFound    = "PlayerNotFound"
	CodeTransient         = "Transient"
)

var messages = map[string]string{
	CodeAttemptsExhausted: "Bạn đã hết lượt",
	CodePoolExhausted:     "Đã hết lộc rồi",
	CodeRoomClosed:        "Phòng đã kết thúc",
	CodePlayerNotFound:    "Người chơi không tồn tại",
	CodeTransient:         "Lỗi tạm thời, thử lại nhé",
}

// PrizeView is the prize payload returned to the caller on a win.
type PrizeView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Outcome is the terminal result of one submitted round.
type Outcome struct {
	Success  bool         `json:"success"`
	Correct  bool         `json:"correct"`
	TimedOut bool         `json:"timedOut"`
	Prize    *PrizeView   `json:"prize,omitempty"`
	ResultID uint         `json:"resultId,omitempty"`
	Error    string       `json:"error,omitempty"`
	Message  string       `json:"message,omitempty"`
	Retry    *rounds.View `json:"retry,omitempty"` // fresh round after a transient failure
}

// Event is published to live viewers after each successful allocation.
type Event struct {
	Type       string    `json:"type"`
	PlayerID   uint      `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Prize      PrizeView `json:"prize"`
	Remaining  int       `json:"remaining"`
	ResultID   uint      `json:"resultId"`
}

// Notifier fans an allocation event out to a room's live viewers.
type Notifier interface {
	Publish(roomID uint, event interface{})
}

// Facade sequences the round controller and the allocation engine and maps
// engine errors to the caller vocabulary. It owns idempotent replay: the
// transition awaiting->resolved happens exactly once per round, and the
// outcome of that one transition is cached for duplicate submits.
type Facade struct {
	db     *gorm.DB
	engine *allocation.Engine
	ctrl   *rounds.Controller
	hub    Notifier
	logger *zap.Logger

	mu       sync.Mutex
	outcomes map[string]*Outcome // roundID -> settled outcome
}

func New(db *gorm.DB, engine *allocation.Engine, ctrl *rounds.Controller, hub Notifier, logger *zap.Logger) *Facade {
	return &Facade{
		db:       db,
		engine:   engine,
		ctrl:     ctrl,
		hub:      hub,
		logger:   logger,
		outcomes: make(map[string]*Outcome),
	}
}

// StartAttempt opens a round for the player. The budget and pool checks here
// are a courtesy; the engine re-checks everything inside its transaction.
func (f *Facade) StartAttempt(ctx context.Context, room *models.Room, playerID uint) (*rounds.View, *Outcome, error) {
	if room.Status != models.RoomActive {
		return nil, f.reject(CodeRoomClosed), nil
	}

	var player models.Player
	if err := f.db.WithContext(ctx).Where("room_id = ?", room.ID).First(&player, playerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, f.reject(CodePlayerNotFound), nil
		}
		return nil, nil, err
	}
	if player.AttemptsUsed >= room.MaxAttempts {
		return nil, f.reject(CodeAttemptsExhausted), nil
	}

	var remaining int64
	if err := f.db.WithContext(ctx).Model(&models.Prize{}).
		Where("room_id = ? AND remaining > 0", room.ID).Count(&remaining).Error; err != nil {
		return nil, nil, err
	}
	if remaining == 0 {
		return nil, f.reject(CodePoolExhausted), nil
	}

	r, err := f.ctrl.Start(room, playerID)
	if err != nil {
		return nil, nil, err
	}
	v := f.ctrl.View(r)
	return &v, nil, nil
}

// SubmitRoundResult resolves the round and, on its single resolution, runs
// the claim. Replaying an already-settled round returns the cached outcome
// and never reaches the engine again.
func (f *Facade) SubmitRoundResult(ctx context.Context, room *models.Room, playerID uint, roundID string, sub models.SubmitRequest) (*Outcome, error) {
	if out := f.cached(roundID); out != nil {
		return out, nil
	}

	r, err := f.ctrl.Resolve(roundID, playerID, sub, time.Now())
	if err != nil {
		if err == rounds.ErrAlreadyResolved {
			if out := f.cached(roundID); out != nil {
				return out, nil
			}
			// Resolved by a concurrent submit whose claim has not settled
			// yet; treat as replay without triggering another allocation.
			return &Outcome{Success: false, Error: CodeTransient, Message: messages[CodeTransient]}, nil
		}
		return nil, err
	}

	prize, res, claimErr := f.engine.ClaimPrize(ctx, room.ID, playerID)
	if claimErr == nil {
		out := &Outcome{
			Success:  true,
			Correct:  r.Correct,
			TimedOut: r.TimedOut,
			Prize: &PrizeView{
				ID:    prize.ID,
				Name:  prize.Name,
				Type:  prize.Type,
				Value: prize.Value,
			},
			ResultID: res.ID,
		}
		f.settle(roundID, out)
		f.publish(ctx, room.ID, playerID, prize, res)
		return out, nil
	}

	if allocation.Terminal(claimErr) {
		out := f.reject(codeFor(claimErr))
		out.Correct = r.Correct
		out.TimedOut = r.TimedOut
		f.settle(roundID, out)
		return out, nil
	}

	// Transient storage failure: the transaction never committed, so the
	// attempt was not consumed. Discard the round and hand back a fresh one.
	f.logger.Warn("claim failed, restarting round",
		zap.String("roundID", roundID), zap.Error(claimErr))
	fresh, err := f.ctrl.Restart(r, room)
	if err != nil {
		return nil, err
	}
	v := f.ctrl.View(fresh)
	return &Outcome{Success: false, Error: CodeTransient, Message: messages[CodeTransient], Retry: &v}, nil
}

// Abandon drops the player's unresolved round without consuming anything.
// Settled rounds stay put so their outcome remains replayable.
func (f *Facade) Abandon(roundID string, playerID uint) error {
	r, ok := f.ctrl.Get(roundID)
	if !ok {
		return rounds.ErrRoundNotFound
	}
	if r.PlayerID != playerID {
		return rounds.ErrWrongPlayer
	}
	if r.Resolved {
		return rounds.ErrAlreadyResolved
	}
	f.ctrl.Abandon(roundID)
	return nil
}

func (f *Facade) cached(roundID string) *Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcomes[roundID]
}

func (f *Facade) settle(roundID string, out *Outcome) {
	f.mu.Lock()
	f.outcomes[roundID] = out
	f.mu.Unlock()
}

// SweepStale drops rounds past their grace window, then the settled
// outcomes whose rounds are gone; the replay guarantee lives exactly as
// long as the round does.
func (f *Facade) SweepStale(now time.Time) int {
	dropped := f.ctrl.Sweep(now)
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.outcomes {
		if _, ok := f.ctrl.Get(id); !ok {
			delete(f.outcomes, id)
		}
	}
	return dropped
}

func (f *Facade) publish(ctx context.Context, roomID, playerID uint, prize *models.Prize, res *models.Result) {
	if f.hub == nil {
		return
	}
	var player models.Player
	if f.db != nil {
		if err := f.db.WithContext(ctx).First(&player, playerID).Error; err != nil {
			f.logger.Error("failed to load player for event", zap.Error(err))
		}
	}
	f.hub.Publish(roomID, Event{
		Type:       "allocation",
		PlayerID:   playerID,
		PlayerName: player.Name,
		Prize: PrizeView{
			ID:    prize.ID,
			Name:  prize.Name,
			Type:  prize.Type,
			Value: prize.Value,
		},
		Remaining: prize.Remaining,
		ResultID:  res.ID,
	})
}

func (f *Facade) reject(code string) *Outcome {
	return &Outcome{Success: false, Error: code, Message: messages[code]}
}

func codeFor(err error) string {
	switch err {
	case allocation.ErrRoomClosed:
		return CodeRoomClosed
	case allocation.ErrPlayerNotFound:
		return CodePlayerNotFound
	case allocation.ErrAttemptsExhausted:
		return CodeAttemptsExhausted
	case allocation.ErrPoolExhausted:
		return CodePoolExhausted
	}
	return CodeTransient
}
