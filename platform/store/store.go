package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/worldopoly/backend/platform/engine"
)

var (
	// ErrNotFound means no game exists under the requested id.
	ErrNotFound = errors.New("store: game not found")
	// ErrConflict means the game changed between Load and Save. Callers
	// should reload and retry.
	ErrConflict = errors.New("store: version conflict")
)

// Store persists whole game aggregates keyed by room id. Save performs an
// optimistic concurrency check on GameState.Version.
type Store interface {
	Load(roomID string) (*engine.GameState, error)
	Save(g *engine.GameState) error
	Delete(roomID string) error
}

// gameTTLSeconds keeps abandoned rooms from living in Redis forever.
const gameTTLSeconds = 86400

// RedisStore keeps each game as a JSON document under game:<room>.
type RedisStore struct {
	Pool *redis.Pool
}

func NewRedisStore(pool *redis.Pool) *RedisStore {
	return &RedisStore{Pool: pool}
}

func gameKey(roomID string) string {
	return fmt.Sprintf("game:%s", roomID)
}

func (s *RedisStore) Load(roomID string) (*engine.GameState, error) {
	conn := s.Pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", gameKey(roomID)))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g engine.GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("store: corrupt game %s: %w", roomID, err)
	}
	return &g, nil
}

// Save writes the game back only if nobody else saved a newer version since
// the caller loaded it. The check runs under WATCH so a concurrent write
// aborts the transaction instead of being overwritten.
func (s *RedisStore) Save(g *engine.GameState) error {
	conn := s.Pool.Get()
	defer conn.Close()

	key := gameKey(g.ID)
	if _, err := conn.Do("WATCH", key); err != nil {
		return err
	}

	current, err := redis.Bytes(conn.Do("GET", key))
	if err != nil && err != redis.ErrNil {
		conn.Do("UNWATCH")
		return err
	}
	if err == nil {
		var stored struct {
			Version int64 `json:"version"`
		}
		if jsonErr := json.Unmarshal(current, &stored); jsonErr == nil && stored.Version != g.Version {
			conn.Do("UNWATCH")
			return ErrConflict
		}
	}

	g.Version++
	payload, err := json.Marshal(g)
	if err != nil {
		g.Version--
		conn.Do("UNWATCH")
		return err
	}

	conn.Send("MULTI")
	conn.Send("SET", key, payload, "EX", gameTTLSeconds)
	reply, err := conn.Do("EXEC")
	if err != nil {
		g.Version--
		return err
	}
	if reply == nil {
		// EXEC returns nil when a watched key changed underneath us.
		g.Version--
		return ErrConflict
	}
	return nil
}

func (s *RedisStore) Delete(roomID string) error {
	conn := s.Pool.Get()
	defer conn.Close()

	_, err := conn.Do("DEL", gameKey(roomID))
	return err
}
