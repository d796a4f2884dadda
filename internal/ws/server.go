package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chess-wager/internal/game"
	"chess-wager/internal/store"
	"chess-wager/internal/tier"
)

type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	joined      bool
	tierID      string
	address     string
	displayName string
	gameID      string
	events      chan game.StreamEvent
}

// Server pairs websocket players into matches per tier and bridges
// their actions to the game manager.
type Server struct {
	manager  *game.Manager
	upgrader websocket.Upgrader
	mu       sync.Mutex
	waiting  map[string]*Client
}

func NewServer(manager *game.Manager) *Server {
	return &Server{
		manager:  manager,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		waiting:  map[string]*Client{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{id: store.NewID(), conn: conn, send: make(chan []byte, 32)}

	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case "join":
			if c.joined {
				continue
			}
			var join JoinMessage
			if err := json.Unmarshal(msg, &join); err != nil {
				continue
			}
			s.handleJoin(c, join)
		case "rejoin":
			if c.joined {
				continue
			}
			var rejoin RejoinMessage
			if err := json.Unmarshal(msg, &rejoin); err != nil {
				continue
			}
			s.handleRejoin(c, rejoin)
		case "action":
			if !c.joined || c.gameID == "" {
				continue
			}
			var action ActionMessage
			if err := json.Unmarshal(msg, &action); err != nil {
				continue
			}
			s.handleAction(c, action)
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func (s *Server) handleJoin(c *Client, join JoinMessage) {
	if join.Address == "" || join.TierID == "" {
		s.sendJoinResult(c, false, "invalid_join", "", false)
		return
	}
	if _, ok := tier.Lookup(join.TierID); !ok {
		s.sendJoinResult(c, false, game.ErrTierNotFound.Error(), "", false)
		return
	}
	c.joined = true
	c.tierID = join.TierID
	c.address = join.Address
	c.displayName = join.DisplayName

	s.mu.Lock()
	waiter := s.waiting[join.TierID]
	if waiter == nil {
		s.waiting[join.TierID] = c
		s.mu.Unlock()
		s.sendJoinResult(c, true, "", "", true)
		return
	}
	delete(s.waiting, join.TierID)
	s.mu.Unlock()

	g, err := s.manager.CreateGame(context.Background(),
		game.SeatInput{ConnID: waiter.id, Address: waiter.address, DisplayName: waiter.displayName},
		game.SeatInput{ConnID: c.id, Address: join.Address, DisplayName: join.DisplayName},
		join.TierID)
	if err != nil {
		log.Error().Err(err).Str("tier", join.TierID).Msg("create game failed")
		s.sendJoinResult(c, false, errCode(err), "", false)
		s.sendJoinResult(waiter, false, errCode(err), "", false)
		s.mu.Lock()
		if s.waiting[join.TierID] == nil {
			s.waiting[join.TierID] = waiter
		}
		s.mu.Unlock()
		return
	}

	for _, cl := range []*Client{waiter, c} {
		cl.gameID = g.ID
		s.attach(cl, g, "")
		s.sendJoinResult(cl, true, "", g.ID, false)
	}
}

func (s *Server) handleRejoin(c *Client, rejoin RejoinMessage) {
	g, err := s.manager.Reconnect(rejoin.GameID, rejoin.Address, c.id)
	if err != nil {
		s.sendJoinResult(c, false, errCode(err), "", false)
		return
	}
	c.joined = true
	c.address = rejoin.Address
	c.gameID = g.ID
	s.attach(c, g, rejoin.LastEventID)
	s.sendJoinResult(c, true, "", g.ID, false)
}

func (s *Server) handleAction(c *Client, action ActionMessage) {
	ctx := context.Background()
	var err error
	switch action.Action {
	case "move":
		_, err = s.manager.SubmitMove(ctx, c.id, action.From, action.To, action.Promotion)
	case "resign":
		_, err = s.manager.Resign(ctx, c.id)
	case "draw_offer":
		err = s.manager.OfferDraw(c.id)
	case "draw_accept":
		_, err = s.manager.AcceptDraw(ctx, c.id)
	case "funds_added":
		err = s.manager.NotifyFundsAdded(ctx, c.gameID)
	default:
		err = errInvalidAction
	}
	result := ActionResult{Type: "action_result", Action: action.Action, Ok: err == nil, Error: errCode(err)}
	msg, _ := json.Marshal(result)
	safeSend(c.send, msg)
}

// attach forwards the game's event stream to the client, replaying
// anything newer than lastEventID first.
func (s *Server) attach(c *Client, g *game.Game, lastEventID string) {
	for _, ev := range g.Events().ReplayAfter(lastEventID) {
		msg, _ := json.Marshal(ev)
		safeSend(c.send, msg)
	}
	ch := g.Events().Subscribe()
	c.events = ch
	go func() {
		for ev := range ch {
			msg, _ := json.Marshal(ev)
			safeSend(c.send, msg)
		}
	}()
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	for tierID, waiter := range s.waiting {
		if waiter == c {
			delete(s.waiting, tierID)
		}
	}
	s.mu.Unlock()

	if c.gameID != "" {
		s.manager.Disconnect(context.Background(), c.id)
		if c.events != nil {
			if g, err := s.manager.LookupByID(c.gameID); err == nil {
				g.Events().Unsubscribe(c.events)
			}
		}
	}
	safeClose(c.send)
}

func (s *Server) sendJoinResult(c *Client, ok bool, errCode, gameID string, queued bool) {
	msg, _ := json.Marshal(JoinResult{Type: "join_result", Ok: ok, Error: errCode, GameID: gameID, Queued: queued})
	safeSend(c.send, msg)
}

var errInvalidAction = errors.New("invalid_action")

func errCode(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}
