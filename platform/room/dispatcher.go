package room

import (
	"math/rand"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/worldopoly/backend/platform/bot"
	"github.com/worldopoly/backend/platform/engine"
	"github.com/worldopoly/backend/platform/store"
)

// Hub fans events out to everyone in a room. Events are published only
// after the new state has been saved.
type Hub interface {
	Publish(roomID string, events []engine.Event)
}

// Recorder receives finished games for history and leaderboard bookkeeping.
type Recorder interface {
	RecordResult(g *engine.GameState) error
}

const (
	defaultRetries = 3
	// botTurnLimit bounds the synchronous bot chain per dispatch. Generous
	// enough for a full table of bots to play several turns, small enough
	// to kill a loop if the decision logic ever wedges.
	botTurnLimit = 64
)

// Dispatcher is the single entry point for mutating a game. It serializes
// actions per room, runs the engine, chains bot turns, saves, then
// publishes the resulting events.
type Dispatcher struct {
	Store    store.Store
	Hub      Hub
	Recorder Recorder
	// Dice returns a fresh roll function per engine call. Overridable in
	// tests for deterministic games.
	Dice func() engine.RollFunc

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDispatcher(st store.Store, hub Hub, rec Recorder) *Dispatcher {
	return &Dispatcher{
		Store:    st,
		Hub:      hub,
		Recorder: rec,
		Dice: func() engine.RollFunc {
			return func() (int, int) {
				return rand.Intn(6) + 1, rand.Intn(6) + 1
			}
		},
		locks: make(map[string]*sync.Mutex),
	}
}

func (d *Dispatcher) roomLock(roomID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[roomID] = l
	}
	return l
}

// Dispatch applies one player action to a room. Engine rejections come back
// as engine.Error values and leave the stored state untouched.
func (d *Dispatcher) Dispatch(roomID string, act engine.Action) error {
	l := d.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 0; attempt < defaultRetries; attempt++ {
		g, err := d.Store.Load(roomID)
		if err != nil {
			return err
		}

		events, err := engine.Apply(g, act, d.Dice())
		if err != nil {
			return err
		}

		events = append(events, d.runBots(g)...)

		if err := d.Store.Save(g); err != nil {
			if err == store.ErrConflict {
				lastErr = err
				continue
			}
			return err
		}

		d.finish(roomID, g, events)
		return nil
	}
	return lastErr
}

// Start begins a lobby game at the host's request, under the same per-room
// lock and conflict-retry policy as Dispatch. Bots open the game immediately
// when the shuffled order puts one first.
func (d *Dispatcher) Start(roomID, hostID string, perm func(n int) []int) error {
	l := d.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 0; attempt < defaultRetries; attempt++ {
		g, err := d.Store.Load(roomID)
		if err != nil {
			return err
		}

		host := g.PlayerByID(hostID)
		if host == nil || !host.IsHost {
			return &engine.Error{Kind: engine.IllegalAction, Msg: "only the host can start the game"}
		}

		events, err := g.Start(perm)
		if err != nil {
			return err
		}

		events = append(events, d.runBots(g)...)

		if err := d.Store.Save(g); err != nil {
			if err == store.ErrConflict {
				lastErr = err
				continue
			}
			return err
		}

		d.finish(roomID, g, events)
		return nil
	}
	return lastErr
}

// KickBots advances a room whose current actor is a bot, without any player
// action. Needed when a game starts on a bot's turn.
func (d *Dispatcher) KickBots(roomID string) error {
	l := d.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 0; attempt < defaultRetries; attempt++ {
		g, err := d.Store.Load(roomID)
		if err != nil {
			return err
		}

		events := d.runBots(g)
		if len(events) == 0 {
			return nil
		}

		if err := d.Store.Save(g); err != nil {
			if err == store.ErrConflict {
				lastErr = err
				continue
			}
			return err
		}

		d.finish(roomID, g, events)
		return nil
	}
	return lastErr
}

// runBots plays bot turns synchronously until a human is up, the game ends
// or the step limit is hit. Iterative on purpose, never recursive.
func (d *Dispatcher) runBots(g *engine.GameState) []engine.Event {
	var events []engine.Event
	for steps := 0; steps < botTurnLimit; steps++ {
		if g.Phase != engine.PhasePlaying {
			return events
		}
		actor := g.PlayerByID(g.CurrentActorID())
		if actor == nil || !actor.IsBot {
			return events
		}
		act, ok := bot.Decide(g, actor.ID)
		if !ok {
			return events
		}
		evs, err := engine.Apply(g, act, d.Dice())
		if err != nil {
			// The decision logic proposed something the engine rejects.
			// Stop the chain rather than spin.
			log.WithFields(log.Fields{
				"room":   g.ID,
				"bot":    actor.ID,
				"action": act.Type,
			}).WithError(err).Warn("bot action rejected")
			return events
		}
		events = append(events, evs...)
	}
	log.WithField("room", g.ID).Warn("bot chain hit step limit")
	return events
}

func (d *Dispatcher) finish(roomID string, g *engine.GameState, events []engine.Event) {
	if d.Hub != nil && len(events) > 0 {
		d.Hub.Publish(roomID, events)
	}
	if g.Phase != engine.PhaseGameOver {
		return
	}
	if d.Recorder != nil {
		if err := d.Recorder.RecordResult(g); err != nil {
			log.WithField("room", roomID).WithError(err).Error("failed to record game result")
		}
	}
	d.dropLock(roomID)
}

// dropLock forgets a finished room's lock so the map does not grow for the
// life of the process. A straggler still holding the old mutex is harmless:
// the engine rejects actions on a finished game and the store's version
// check guards the document.
func (d *Dispatcher) dropLock(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.locks, roomID)
}
