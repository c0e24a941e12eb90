package rounds

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"locserver/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// quietPeriod is the minimum gap after a shake resolution before the same
// player's motion source may resolve another round.
const quietPeriod = time.Second

// sweepGrace is how long a round survives past its deadline before the
// janitor drops it. A late submit inside the grace window still resolves as
// a timeout; an abandoned round leaves no trace.
const sweepGrace = 10 * time.Minute

var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrWrongPlayer     = errors.New("round belongs to another player")
	ErrAlreadyResolved = errors.New("round already resolved")
	ErrQuietPeriod     = errors.New("shake trigger inside quiet period")
	ErrNoInput         = errors.New("no qualifying input")
	ErrNoKinds         = errors.New("room has no enabled round kinds")
)

// Round is one gating mini-game instance. It starts awaiting input and
// resolves exactly once: by a qualifying input or by timeout.
type Round struct {
	ID        string
	RoomID    uint
	PlayerID  uint
	Kind      string
	StartedAt time.Time
	Deadline  time.Time

	Resolved bool
	TimedOut bool
	Correct  bool // cosmetic framing only; resolved is the gate

	contentID int // bank index for quiz/scramble, -1 for shake kinds
	question  *Question
	words     []string // shuffled presentation order
	sentence  string   // scramble target
}

// View is the client-safe payload of a round; answers never leave the server.
type View struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Deadline time.Time `json:"deadline"`
	Question string    `json:"question,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Words    []string  `json:"words,omitempty"`
}

// Controller owns the live rounds of all rooms, in process memory.
type Controller struct {
	logger *zap.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	rounds      map[string]*Round
	lastResolve map[uint]time.Time // playerID -> last shake resolution
}

func NewController(logger *zap.Logger) *Controller {
	return &Controller{
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		rounds:      make(map[string]*Round),
		lastResolve: make(map[uint]time.Time),
	}
}

// Start opens a round for the player: one kind picked uniformly at random
// from the room's enabled set, content rolled fresh.
func (c *Controller) Start(room *models.Room, playerID uint) (*Round, error) {
	return c.start(room, playerID, -1, "")
}

// Restart replaces a discarded round after a recoverable allocation failure.
// The new round is independently randomized and never reuses the previous
// question or sentence instance.
func (c *Controller) Restart(old *Round, room *models.Room) (*Round, error) {
	c.mu.Lock()
	delete(c.rounds, old.ID)
	c.mu.Unlock()
	return c.start(room, old.PlayerID, old.contentID, old.Kind)
}

func (c *Controller) start(room *models.Room, playerID uint, avoidContent int, avoidKind string) (*Round, error) {
	kinds := make([]string, 0, 4)
	for _, k := range room.Kinds() {
		if ValidKind(k) {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil, ErrNoKinds
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kind := kinds[c.rng.Intn(len(kinds))]
	now := time.Now()
	r := &Round{
		ID:        uuid.New().String(),
		RoomID:    room.ID,
		PlayerID:  playerID,
		Kind:      kind,
		StartedAt: now,
		Deadline:  now.Add(Timeout(kind)),
		contentID: -1,
	}

	switch kind {
	case KindQuiz:
		r.contentID = c.roll(len(quizQuestions), avoidContent, avoidKind == kind)
		r.question = &quizQuestions[r.contentID]
	case KindScramble:
		r.contentID = c.roll(len(scrambleSentences), avoidContent, avoidKind == kind)
		r.sentence = scrambleSentences[r.contentID]
		r.words = c.shuffle(strings.Fields(r.sentence))
	}

	c.rounds[r.ID] = r
	c.logger.Info("round started",
		zap.String("roundID", r.ID),
		zap.Uint("roomID", room.ID),
		zap.Uint("playerID", playerID),
		zap.String("kind", kind),
	)
	return r, nil
}

// roll picks a bank index, avoiding the previous instance on a restart.
func (c *Controller) roll(n, avoid int, sameKind bool) int {
	i := c.rng.Intn(n)
	for sameKind && n > 1 && i == avoid {
		i = c.rng.Intn(n)
	}
	return i
}

func (c *Controller) shuffle(words []string) []string {
	shuffled := make([]string, len(words))
	copy(shuffled, words)
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Get returns a live round by id.
func (c *Controller) Get(roundID string) (*Round, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rounds[roundID]
	return r, ok
}

// Resolve transitions a round to its single terminal outcome. A submit past
// the deadline is a definitive timeout resolution; before the deadline the
// submission must carry a qualifying input for the round's kind.
func (c *Controller) Resolve(roundID string, playerID uint, sub models.SubmitRequest, now time.Time) (*Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	if r.PlayerID != playerID {
		return nil, ErrWrongPlayer
	}
	if r.Resolved {
		return r, ErrAlreadyResolved
	}

	if now.After(r.Deadline) {
		r.Resolved = true
		r.TimedOut = true
		return r, nil
	}

	switch r.Kind {
	case KindShake, KindShakeStick:
		if !sub.Trigger {
			return nil, ErrNoInput
		}
		if now.Sub(c.lastResolve[playerID]) < quietPeriod {
			return nil, ErrQuietPeriod
		}
		c.lastResolve[playerID] = now
		r.Correct = true
	case KindQuiz:
		switch {
		case sub.Choice != nil:
			r.Correct = *sub.Choice == r.question.Correct
		case sub.Answer != "":
			r.Correct = answersMatch(sub.Answer, r.question.Options[r.question.Correct])
		default:
			return nil, ErrNoInput
		}
	case KindScramble:
		if len(sub.Words) == 0 {
			return nil, ErrNoInput
		}
		r.Correct = answersMatch(strings.Join(sub.Words, " "), r.sentence)
	}

	r.Resolved = true
	c.logger.Info("round resolved",
		zap.String("roundID", r.ID),
		zap.String("kind", r.Kind),
		zap.Bool("correct", r.Correct),
		zap.Bool("timeout", r.TimedOut),
	)
	return r, nil
}

// Abandon drops a round with no side effects, resolved or not.
func (c *Controller) Abandon(roundID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rounds, roundID)
}

// Sweep removes rounds past their deadline plus grace and returns how many
// were dropped. Debounce entries older than the quiet period go with them.
func (c *Controller) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for id, r := range c.rounds {
		if now.After(r.Deadline.Add(sweepGrace)) {
			delete(c.rounds, id)
			dropped++
		}
	}
	for playerID, ts := range c.lastResolve {
		if now.Sub(ts) >= quietPeriod {
			delete(c.lastResolve, playerID)
		}
	}
	return dropped
}

// View builds the client payload for a round.
func (c *Controller) View(r *Round) View {
	v := View{
		ID:       r.ID,
		Kind:     r.Kind,
		Deadline: r.Deadline,
	}
	if r.question != nil {
		v.Question = r.question.Question
		v.Options = r.question.Options
	}
	if len(r.words) > 0 {
		v.Words = r.words
	}
	return v
}
