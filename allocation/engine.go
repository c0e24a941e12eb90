package allocation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"locserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine grants at most one prize unit per call, chosen in proportion to
// each prize's remaining supply, atomically with the attempt-count increment
// and the audit record insert.
type Engine struct {
	store  Store
	logger *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	source := rand.NewSource(time.Now().UnixNano())
	return &Engine{
		store:  store,
		logger: logger,
		rng:    rand.New(source),
	}
}

// ClaimPrize allocates one remaining unit to the player, or returns one of
// the precondition errors with zero side effects. Concurrent calls against
// the same room are serialized by the store's transaction.
func (e *Engine) ClaimPrize(ctx context.Context, roomID, playerID uint) (*models.Prize, *models.Result, error) {
	var (
		won *models.Prize
		res *models.Result
	)

	err := e.store.ClaimTx(ctx, roomID, func(tx ClaimTx) error {
		room, err := tx.Room(roomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRoomClosed
			}
			return err
		}
		if room.Status != models.RoomActive {
			return ErrRoomClosed
		}

		player, err := tx.Player(roomID, playerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPlayerNotFound
			}
			return err
		}
		if player.AttemptsUsed >= room.MaxAttempts {
			return ErrAttemptsExhausted
		}

		prizes, err := tx.Prizes(roomID)
		if err != nil {
			return err
		}
		idx := e.pick(prizes)
		if idx < 0 {
			return ErrPoolExhausted
		}
		won = prizes[idx]

		if err := tx.DecrementPrize(won.ID); err != nil {
			return err
		}
		if err := tx.IncrementAttempts(player.ID); err != nil {
			return err
		}
		res = &models.Result{
			RoomID:   roomID,
			PlayerID: player.ID,
			PrizeID:  won.ID,
		}
		return tx.InsertResult(res)
	})
	if err != nil {
		return nil, nil, err
	}

	won.Remaining-- // reflect the committed decrement in the returned copy
	e.logger.Info("prize allocated",
		zap.Uint("roomID", roomID),
		zap.Uint("playerID", playerID),
		zap.Uint("prizeID", won.ID),
		zap.Int("remaining", won.Remaining),
	)
	return won, res, nil
}

// pick returns the index of a prize chosen with probability proportional to
// its remaining count, or -1 when the pool is exhausted. One unit per
// remaining count means draw odds track true scarcity as the pool depletes.
func (e *Engine) pick(prizes []*models.Prize) int {
	total := remainingTotal(prizes)
	if total == 0 {
		return -1
	}

	e.mu.Lock()
	n := e.rng.Intn(total)
	e.mu.Unlock()

	return pickAt(prizes, n)
}

func remainingTotal(prizes []*models.Prize) int {
	total := 0
	for _, p := range prizes {
		if p.Remaining > 0 {
			total += p.Remaining
		}
	}
	return total
}

// pickAt maps the n-th remaining unit (0-based) to its prize index.
func pickAt(prizes []*models.Prize, n int) int {
	for i, p := range prizes {
		if p.Remaining <= 0 {
			continue
		}
		n -= p.Remaining
		if n < 0 {
			return i
		}
	}
	return -1
}
