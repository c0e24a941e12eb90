package database

import (
	"context"

	"locserver/allocation"
	"locserver/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimStore backs the allocation engine with Postgres. Row-level locks
// (SELECT ... FOR UPDATE) on the room serialize concurrent claims per room;
// prize and player rows are locked inside the same transaction, so the
// decrement, the attempt increment and the result insert commit or roll
// back together.
type ClaimStore struct {
	db *gorm.DB
}

func NewClaimStore(db *gorm.DB) *ClaimStore {
	return &ClaimStore{db: db}
}

func (s *ClaimStore) ClaimTx(ctx context.Context, roomID uint, fn func(tx allocation.ClaimTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&claimTx{tx: tx})
	})
}

type claimTx struct {
	tx *gorm.DB
}

func (t *claimTx) Room(roomID uint) (*models.Room, error) {
	var room models.Room
	// The room row lock is the per-room mutual exclusion point.
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (t *claimTx) Player(roomID, playerID uint) (*models.Player, error) {
	var player models.Player
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", roomID).
		First(&player, playerID).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (t *claimTx) Prizes(roomID uint) ([]*models.Prize, error) {
	var prizes []*models.Prize
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&prizes).Error
	return prizes, err
}

func (t *claimTx) DecrementPrize(prizeID uint) error {
	res := t.tx.Model(&models.Prize{}).
		Where("id = ? AND remaining > 0", prizeID).
		UpdateColumn("remaining", gorm.Expr("remaining - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Cannot happen under the room lock; guard anyway so remaining
		// never goes negative.
		return allocation.ErrPoolExhausted
	}
	return nil
}

func (t *claimTx) IncrementAttempts(playerID uint) error {
	return t.tx.Model(&models.Player{}).
		Where("id = ?", playerID).
		UpdateColumn("attempts_used", gorm.Expr("attempts_used + 1")).Error
}

func (t *claimTx) InsertResult(res *models.Result) error {
	return t.tx.Create(res).Error
}
