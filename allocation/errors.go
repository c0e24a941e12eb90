package allocation

import "errors"

// Precondition errors, checked in this order inside the claim transaction.
// They are deterministic business outcomes, never counted as attempts.
var (
	ErrRoomClosed        = errors.New("room closed")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAttemptsExhausted = errors.New("attempts exhausted") // hết lượt
	ErrPoolExhausted     = errors.New("pool exhausted")     // hết lộc
)

// Terminal reports whether err is a business outcome that should end the
// player's interaction rather than restart a round.
func Terminal(err error) bool {
	return errors.Is(err, ErrRoomClosed) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrAttemptsExhausted) ||
		errors.Is(err, ErrPoolExhausted)
}
