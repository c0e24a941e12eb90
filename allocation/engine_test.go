package allocation

import (
	"context"
	"sync"
	"testing"

	"locserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore is an in-memory Store with the same isolation contract as the
// Postgres one: one claim at a time per room, and rollback on error.
type memStore struct {
	mu      sync.Mutex
	rooms   map[uint]*models.Room
	players map[uint]*models.Player
	prizes  map[uint][]*models.Prize // keyed by room
	results []*models.Result
	nextID  uint

	failWith error // when set, the next ClaimTx fails before running fn
}

func newMemStore() *memStore {
	return &memStore{
		rooms:   make(map[uint]*models.Room),
		players: make(map[uint]*models.Player),
		prizes:  make(map[uint][]*models.Prize),
		nextID:  1,
	}
}

func (s *memStore) addRoom(room *models.Room) *models.Room {
	room.ID = s.nextID
	s.nextID++
	s.rooms[room.ID] = room
	return room
}

func (s *memStore) addPlayer(roomID uint, name string) *models.Player {
	p := &models.Player{RoomID: roomID, Name: name}
	p.ID = s.nextID
	s.nextID++
	s.players[p.ID] = p
	return p
}

func (s *memStore) addPrize(roomID uint, name string, quantity int) *models.Prize {
	p := &models.Prize{RoomID: roomID, Type: models.PrizeCash, Name: name, Quantity: quantity, Remaining: quantity}
	p.ID = s.nextID
	s.nextID++
	s.prizes[roomID] = append(s.prizes[roomID], p)
	return p
}

func (s *memStore) ClaimTx(ctx context.Context, roomID uint, fn func(tx ClaimTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		err := s.failWith
		s.failWith = nil
		return err
	}

	snap := s.snapshot()
	if err := fn(&memTx{store: s, roomID: roomID}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	remaining map[uint]int
	attempts  map[uint]int
	results   int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		remaining: make(map[uint]int),
		attempts:  make(map[uint]int),
		results:   len(s.results),
	}
	for _, prizes := range s.prizes {
		for _, p := range prizes {
			snap.remaining[p.ID] = p.Remaining
		}
	}
	for id, p := range s.players {
		snap.attempts[id] = p.AttemptsUsed
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	for _, prizes := range s.prizes {
		for _, p := range prizes {
			p.Remaining = snap.remaining[p.ID]
		}
	}
	for id, p := range s.players {
		p.AttemptsUsed = snap.attempts[id]
	}
	s.results = s.results[:snap.results]
}

type memTx struct {
	store  *memStore
	roomID uint
}

func (t *memTx) Room(roomID uint) (*models.Room, error) {
	room, ok := t.store.rooms[roomID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *room
	return &cp, nil
}

func (t *memTx) Player(roomID, playerID uint) (*models.Player, error) {
	player, ok := t.store.players[playerID]
	if !ok || player.RoomID != roomID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *player
	return &cp, nil
}

func (t *memTx) Prizes(roomID uint) ([]*models.Prize, error) {
	prizes := t.store.prizes[roomID]
	out := make([]*models.Prize, len(prizes))
	for i, p := range prizes {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

func (t *memTx) DecrementPrize(prizeID uint) error {
	for _, prizes := range t.store.prizes {
		for _, p := range prizes {
			if p.ID == prizeID {
				if p.Remaining <= 0 {
					return ErrPoolExhausted
				}
				p.Remaining--
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (t *memTx) IncrementAttempts(playerID uint) error {
	player, ok := t.store.players[playerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	player.AttemptsUsed++
	return nil
}

func (t *memTx) InsertResult(res *models.Result) error {
	res.ID = t.store.nextID
	t.store.nextID++
	t.store.results = append(t.store.results, res)
	return nil
}

func (s *memStore) resultCount(prizeID uint) int {
	n := 0
	for _, r := range s.results {
		if r.PrizeID == prizeID {
			n++
		}
	}
	return n
}

func activeRoom(store *memStore, maxAttempts int) *models.Room {
	return store.addRoom(&models.Room{
		Code:        "ABCDEF",
		HostName:    "Lan",
		MaxAttempts: maxAttempts,
		GameKinds:   "shake",
		Status:      models.RoomActive,
	})
}

func TestClaimPrize(t *testing.T) {
	ctx := context.Background()

	t.Run("successful claim mutates exactly once", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 3)
		player := store.addPlayer(room.ID, "Minh")
		prize := store.addPrize(room.ID, "Lì xì 50K", 2)

		engine := NewEngine(store, zap.NewNop())
		won, res, err := engine.ClaimPrize(ctx, room.ID, player.ID)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if won.ID != prize.ID {
			t.Errorf("Expected prize %d, got %d", prize.ID, won.ID)
		}
		if won.Remaining != 1 {
			t.Errorf("Expected returned remaining 1, got %d", won.Remaining)
		}
		if prize.Remaining != 1 {
			t.Errorf("Expected stored remaining 1, got %d", prize.Remaining)
		}
		if player.AttemptsUsed != 1 {
			t.Errorf("Expected attemptsUsed 1, got %d", player.AttemptsUsed)
		}
		if res == nil || res.PrizeID != prize.ID || res.PlayerID != player.ID {
			t.Errorf("Unexpected result record: %+v", res)
		}
		if got := store.resultCount(prize.ID); got != prize.Quantity-prize.Remaining {
			t.Errorf("Conservation violated: %d results vs quantity-remaining %d", got, prize.Quantity-prize.Remaining)
		}
	})

	t.Run("ended room rejected regardless of pool", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		room.Status = models.RoomEnded
		player := store.addPlayer(room.ID, "Minh")
		store.addPrize(room.ID, "Lì xì", 5)

		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != ErrRoomClosed {
			t.Fatalf("Expected ErrRoomClosed, got %v", err)
		}
		if player.AttemptsUsed != 0 {
			t.Errorf("Rejection must not consume an attempt, attemptsUsed=%d", player.AttemptsUsed)
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		store.addPrize(room.ID, "Lì xì", 1)

		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, 999); err != ErrPlayerNotFound {
			t.Fatalf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("player from another room is not found", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		other := activeRoom(store, 1)
		stranger := store.addPlayer(other.ID, "Trang")
		store.addPrize(room.ID, "Lì xì", 1)

		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, stranger.ID); err != ErrPlayerNotFound {
			t.Fatalf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("budget exhausted before pool check", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		player := store.addPlayer(room.ID, "Minh")
		player.AttemptsUsed = 1
		// Pool is empty too; the budget error must win per the check order.
		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != ErrAttemptsExhausted {
			t.Fatalf("Expected ErrAttemptsExhausted, got %v", err)
		}
	})

	t.Run("pool exhaustion does not consume budget", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 2)
		player := store.addPlayer(room.ID, "Minh")
		store.addPrize(room.ID, "Lì xì", 1)

		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != nil {
			t.Fatalf("First claim failed: %v", err)
		}
		if player.AttemptsUsed != 1 {
			t.Fatalf("Expected attemptsUsed 1, got %d", player.AttemptsUsed)
		}
		if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != ErrPoolExhausted {
			t.Fatalf("Expected ErrPoolExhausted, got %v", err)
		}
		if player.AttemptsUsed != 1 {
			t.Errorf("Pool exhaustion must not consume budget, attemptsUsed=%d", player.AttemptsUsed)
		}
	})

	t.Run("exhaustion is deterministic and effect-free", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 10)
		player := store.addPlayer(room.ID, "Minh")
		prize := store.addPrize(room.ID, "Lì xì", 1)

		engine := NewEngine(store, zap.NewNop())
		if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != nil {
			t.Fatalf("Drain claim failed: %v", err)
		}
		for i := 0; i < 5; i++ {
			if _, _, err := engine.ClaimPrize(ctx, room.ID, player.ID); err != ErrPoolExhausted {
				t.Fatalf("Expected ErrPoolExhausted, got %v", err)
			}
		}
		if prize.Remaining != 0 {
			t.Errorf("Expected remaining 0, got %d", prize.Remaining)
		}
		if player.AttemptsUsed != 1 {
			t.Errorf("Expected attemptsUsed 1, got %d", player.AttemptsUsed)
		}
		if len(store.results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(store.results))
		}
	})
}

func TestClaimPrizeConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("two players race for one prize", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		a := store.addPlayer(room.ID, "An")
		b := store.addPlayer(room.ID, "Bình")
		prize := store.addPrize(room.ID, "Lì xì 500K", 1)

		engine := NewEngine(store, zap.NewNop())
		errs := make(chan error, 2)
		for _, p := range []*models.Player{a, b} {
			go func(playerID uint) {
				_, _, err := engine.ClaimPrize(ctx, room.ID, playerID)
				errs <- err
			}(p.ID)
		}

		wins, exhausted := 0, 0
		for i := 0; i < 2; i++ {
			switch err := <-errs; err {
			case nil:
				wins++
			case ErrPoolExhausted:
				exhausted++
			default:
				t.Fatalf("Unexpected error: %v", err)
			}
		}
		if wins != 1 || exhausted != 1 {
			t.Errorf("Expected exactly one winner and one ErrPoolExhausted, got %d/%d", wins, exhausted)
		}
		if prize.Remaining != 0 {
			t.Errorf("Expected remaining 0, got %d", prize.Remaining)
		}
	})

	t.Run("conservation under many concurrent claims", func(t *testing.T) {
		store := newMemStore()
		room := activeRoom(store, 1)
		p1 := store.addPrize(room.ID, "Lì xì 10K", 6)
		p2 := store.addPrize(room.ID, "Lì xì 100K", 3)
		p3 := store.addPrize(room.ID, "Gấu bông", 1)

		const players = 25
		ids := make([]uint, 0, players)
		for i := 0; i < players; i++ {
			ids = append(ids, store.addPlayer(room.ID, "Khách").ID)
		}

		engine := NewEngine(store, zap.NewNop())
		var wg sync.WaitGroup
		results := make(chan error, players)
		for _, id := range ids {
			wg.Add(1)
			go func(playerID uint) {
				defer wg.Done()
				_, _, err := engine.ClaimPrize(ctx, room.ID, playerID)
				results <- err
			}(id)
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			if err == nil {
				wins++
			} else if err != ErrPoolExhausted {
				t.Fatalf("Unexpected error: %v", err)
			}
		}

		total := p1.Quantity + p2.Quantity + p3.Quantity
		if wins != total {
			t.Errorf("Expected %d winners, got %d", total, wins)
		}
		for _, p := range []*models.Prize{p1, p2, p3} {
			if p.Remaining != 0 {
				t.Errorf("Prize %q: expected remaining 0, got %d", p.Name, p.Remaining)
			}
			if got := store.resultCount(p.ID); got != p.Quantity {
				t.Errorf("Prize %q: %d results vs quantity %d", p.Name, got, p.Quantity)
			}
		}
		attempts := 0
		for _, pl := range store.players {
			if pl.AttemptsUsed > room.MaxAttempts {
				t.Errorf("Player %d exceeded budget: %d", pl.ID, pl.AttemptsUsed)
			}
			attempts += pl.AttemptsUsed
		}
		if attempts != total {
			t.Errorf("Expected %d attempts consumed, got %d", total, attempts)
		}
	})
}

func TestPickAt(t *testing.T) {
	prizes := []*models.Prize{
		{Remaining: 2},
		{Remaining: 0},
		{Remaining: 3},
	}

	// Units 0-1 belong to the first prize, 2-4 to the third.
	expect := map[int]int{0: 0, 1: 0, 2: 2, 3: 2, 4: 2}
	for n, want := range expect {
		if got := pickAt(prizes, n); got != want {
			t.Errorf("pickAt(n=%d) = %d, want %d", n, got, want)
		}
	}

	if total := remainingTotal(prizes); total != 5 {
		t.Errorf("remainingTotal = %d, want 5", total)
	}

	empty := []*models.Prize{{Remaining: 0}, {Remaining: 0}}
	if total := remainingTotal(empty); total != 0 {
		t.Errorf("remainingTotal(empty) = %d, want 0", total)
	}
}
