package socket

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"strconv"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"github.com/worldopoly/backend/app/models"
	"github.com/worldopoly/backend/platform/cache"
	"github.com/worldopoly/backend/platform/database"
	"github.com/worldopoly/backend/platform/engine"
	"github.com/worldopoly/backend/platform/queries"
	"github.com/worldopoly/backend/platform/room"
	"github.com/worldopoly/backend/platform/store"
)

// Hub broadcasts engine events to a socket.io room. Each event goes out
// under its own event name with the payload as JSON.
type Hub struct {
	Server *socketio.Server
}

func (h *Hub) Publish(roomID string, events []engine.Event) {
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			log.WithField("event", ev.Type).WithError(err).Error("failed to encode event")
			continue
		}
		h.Server.BroadcastToRoom("/", roomID, string(ev.Type), string(payload))
	}
}

// CreateSocketIOServer wires the realtime side: socket.io transport, game
// dispatcher, redis store and the postgres recorder. Blocks serving HTTP.
func CreateSocketIOServer() {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}

	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	hub := &Hub{Server: server}
	dispatcher := room.NewDispatcher(store.NewRedisStore(pool), hub, queries.NewPGRecorder(db))

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "join-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		gameID, ok := result["game_id"]
		if !ok {
			s.Emit("error-message", "game_id not passed")
			return
		}
		userID, ok := result["user_id"]
		if !ok {
			s.Emit("error-message", "User not authenticated")
			return
		}

		g, err := dispatcher.Store.Load(gameID)
		if err != nil {
			s.Emit("error-message", "Invalid game")
			s.Emit("failed")
			return
		}
		p := g.PlayerByID(userID)
		if p == nil {
			s.Emit("error-message", "You are not seated in this game")
			s.Emit("failed")
			return
		}

		if err := queries.CreatePlayer(models.Player{
			GameID:   gameID,
			UserID:   userID,
			Username: p.Name,
		}, db); err != nil {
			log.WithError(err).Warn("failed to persist player row")
		}

		s.Join(gameID)
		server.BroadcastToRoom("/", gameID, "player-join", userID)

		snapshot, err := json.Marshal(g)
		if err != nil {
			s.Emit("error-message", "Failed to load game state")
			return
		}
		s.Emit("game-state", string(snapshot))
	})

	server.OnEvent("/", "start-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		gameID := result["game_id"]
		if err := dispatcher.Start(gameID, result["user_id"], rand.Perm); err != nil {
			s.Emit("error-message", err.Error())
			return
		}
		if err := queries.SetGameStatus(gameID, models.GameStatusInProgress, db); err != nil {
			log.WithField("game", gameID).WithError(err).Warn("failed to mark game started")
		}
	})

	server.OnEvent("/", "leave-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		s.Leave(result["game_id"])
		go queries.DeletePlayer(result["user_id"], result["game_id"], db)
		server.BroadcastToRoom("/", result["game_id"], "player-left", result["user_id"])
	})

	// Plain actions carry only game_id and user_id.
	plain := map[string]engine.ActionType{
		"roll-dice":     engine.RollDice,
		"buy-property":  engine.BuyProperty,
		"pass-property": engine.PassProperty,
		"end-turn":      engine.EndTurn,
		"pass-bid":      engine.PassBid,
		"pay-jail":      engine.PayJail,
		"use-card":      engine.UseCard,
	}
	for name, actionType := range plain {
		at := actionType
		server.OnEvent("/", name, func(s socketio.Conn, jsonStr string) {
			var result map[string]string
			json.Unmarshal([]byte(jsonStr), &result)

			dispatch(s, dispatcher, result["game_id"], engine.Action{
				Type:   at,
				Player: result["user_id"],
			})
		})
	}

	server.OnEvent("/", "place-bid", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		amount, err := strconv.Atoi(result["amount"])
		if err != nil {
			s.Emit("error-message", "Invalid bid amount")
			return
		}
		dispatch(s, dispatcher, result["game_id"], engine.Action{
			Type:   engine.Bid,
			Player: result["user_id"],
			Amount: amount,
		})
	})

	// Tile-targeted actions carry a card_pos field.
	targeted := map[string]engine.ActionType{
		"build-house": engine.Build,
		"sell-house":  engine.SellBuilding,
		"mortgage":    engine.Mortgage,
		"unmortgage":  engine.Unmortgage,
	}
	for name, actionType := range targeted {
		at := actionType
		server.OnEvent("/", name, func(s socketio.Conn, jsonStr string) {
			var result map[string]string
			json.Unmarshal([]byte(jsonStr), &result)

			cardPos, err := strconv.Atoi(result["card_pos"])
			if err != nil {
				s.Emit("error-message", "Invalid property position")
				return
			}
			dispatch(s, dispatcher, result["game_id"], engine.Action{
				Type:   at,
				Player: result["user_id"],
				Tile:   cardPos,
			})
		})
	}

	server.OnEvent("/", "offer-trade", func(s socketio.Conn, jsonStr string) {
		var result struct {
			GameID string            `json:"game_id"`
			UserID string            `json:"user_id"`
			Offer  engine.TradeOffer `json:"offer"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			s.Emit("error-message", "Invalid trade offer")
			return
		}
		result.Offer.From = result.UserID
		if result.Offer.ID == "" {
			result.Offer.ID = uuid.NewV4().String()
		}
		dispatch(s, dispatcher, result.GameID, engine.Action{
			Type:   engine.TradeOffered,
			Player: result.UserID,
			Offer:  &result.Offer,
		})
	})

	server.OnEvent("/", "accept-trade", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		dispatch(s, dispatcher, result["game_id"], engine.Action{
			Type:    engine.TradeAccept,
			Player:  result["user_id"],
			TradeID: result["trade_id"],
		})
	})

	server.OnEvent("/", "reject-trade", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		dispatch(s, dispatcher, result["game_id"], engine.Action{
			Type:    engine.TradeReject,
			Player:  result["user_id"],
			TradeID: result["trade_id"],
		})
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.WithError(e).Error("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		rooms := s.Rooms()
		for _, r := range rooms {
			server.BroadcastToRoom("/", r, "player-left")
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("FRONTEND_ORIGIN")},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	http.ListenAndServe(":8000", c.Handler(mux))
}

// dispatch runs one action and reports engine rejections back to the
// sender only. Accepted actions publish through the hub instead.
func dispatch(s socketio.Conn, d *room.Dispatcher, gameID string, act engine.Action) {
	if gameID == "" || act.Player == "" {
		s.Emit("error-message", "game_id and user_id are required")
		return
	}
	if err := d.Dispatch(gameID, act); err != nil {
		s.Emit("error-message", err.Error())
	}
}
