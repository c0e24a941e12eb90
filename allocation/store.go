package allocation

import (
	"context"

	"locserver/models"
)

// ClaimTx is the view of one room the engine works with inside a claim.
// Implementations must return rows that are locked (or otherwise isolated)
// against concurrent claims in the same room until the transaction commits.
// Returned rows are snapshot copies; mutations go through the three write
// methods only.
type ClaimTx interface {
	Room(roomID uint) (*models.Room, error)
	Player(roomID, playerID uint) (*models.Player, error)
	Prizes(roomID uint) ([]*models.Prize, error)

	DecrementPrize(prizeID uint) error
	IncrementAttempts(playerID uint) error
	InsertResult(res *models.Result) error
}

// Store runs fn as one atomic unit scoped to a room. If fn returns an
// error the transaction rolls back and no mutation becomes visible.
type Store interface {
	ClaimTx(ctx context.Context, roomID uint, fn func(tx ClaimTx) error) error
}
