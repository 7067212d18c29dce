// Virtual Table Play
//
// One shared rehearsal table for a live poker broadcast. A director
// scripts each round (seating, hole cards, board, camera workflow),
// players and a dealer join from their own devices, and everyone sees
// only their slice of the round: a player sees their own two cards, the
// dealer runs the board reveal, the director sees everything.
//
// Features:
// - Single live session at a fixed key, reset by the director
// - WebSocket per participant: /table and /table/ws
// - Participants identified by cookie (identity id)
// - Seat/dealer claims are transactional: one identity per slot, one
//   slot per identity, concurrent claims serialized by the store
// - Scenario regeneration keeps everyone seated
// - Dealer taps drive the pre-deal → flop → turn → river progression;
//   mistimed taps are ignored
// - Per-connection hole-card flips, reset when a new round begins
// - In-browser QR button to share the table URL, backed by go-qrcode

package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type       string `json:"type"`                  // "director", "start_session", "generate", "claim_role", "leave", "reveal", "flip_card"
	RoleID     string `json:"role_id,omitempty"`     // claim_role
	NumPlayers int    `json:"num_players,omitempty"` // generate
	CardIndex  *int   `json:"card_index,omitempty"`  // reveal (0-4) / flip_card (0-1)
}

// HelloMessage is sent once on connect so the client knows its identity.
type HelloMessage struct {
	Type     string `json:"type"` // "hello"
	Identity string `json:"identity"`
}

// ErrorMessage carries the terminal, user-actionable failures.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"` // "session_not_found", "role_unavailable", "bad_request"
	Message string `json:"message"`
}

// SimpleMessage is for generic notifications ("left", etc.)
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type RoleStatus struct {
	Claimed bool `json:"claimed"`
	Mine    bool `json:"mine"`
}

// ScenarioDetail is the full round sheet, sent only to the director.
type ScenarioDetail struct {
	Title     string     `json:"title"`
	Board     []Card     `json:"board"`
	Hands     []SeatHand `json:"hands"`
	Positions Positions  `json:"positions"`
	Rule      CameraRule `json:"rule"`
}

// SessionView is the per-client projection of the session record.
// Which fields are populated depends on the client's role: board cards
// past the current reveal state and other players' hands never leave
// the server for a seated player.
type SessionView struct {
	Type        string                `json:"type"` // "session"
	Present     bool                  `json:"present"`
	Active      bool                  `json:"active"`
	Roles       map[RoleID]RoleStatus `json:"roles,omitempty"`
	MyRole      string                `json:"my_role,omitempty"`
	HasScenario bool                  `json:"has_scenario"`
	NumPlayers  int                   `json:"num_players,omitempty"`
	ActiveSeats []int                 `json:"active_seats,omitempty"`
	BoardState  BoardState            `json:"board_state,omitempty"`
	Board       []Card                `json:"board,omitempty"`
	MyHand      []Card                `json:"my_hand,omitempty"`
	Flips       []bool                `json:"flips,omitempty"`
	Scenario    *ScenarioDetail       `json:"scenario,omitempty"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	identity string

	// Owned by the hub loop.
	director  bool
	flips     [2]bool
	lastBoard BoardState
	lastSeat  int
}

type clientCommand struct {
	client *Client
	msg    ClientMessage
}

// Hub fans the session record out to connected clients. All hub state
// is owned by the run loop; clients talk to it over channels, and the
// store's subscription channel feeds committed versions back in.
type Hub struct {
	store *SessionStore
	gen   *Generator

	clients  map[*Client]bool
	register chan *Client
	unreg    chan *Client
	commands chan clientCommand

	last Snapshot
}

func newHub(store *SessionStore, gen *Generator) *Hub {
	return &Hub{
		store:    store,
		gen:      gen,
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		commands: make(chan clientCommand),
	}
}

func (h *Hub) run(cfg *Config) {
	snaps, cancel := h.store.Subscribe()
	defer cancel()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true

			c.send <- HelloMessage{
				Type:     "hello",
				Identity: c.identity,
			}
			h.sendView(c)

		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			// A dropped connection is not a leave: the claim stays
			// until the participant explicitly releases it.

		case cmd := <-h.commands:
			h.handleCommand(cfg, cmd)

		case snap, ok := <-snaps:
			if !ok {
				return
			}
			h.last = snap
			for c := range h.clients {
				h.sendView(c)
			}
		}
	}
}

func (h *Hub) handleCommand(cfg *Config, cmd clientCommand) {
	c := cmd.client
	msg := cmd.msg

	switch msg.Type {
	case "director":
		c.director = true
		h.sendView(c)

	case "start_session":
		c.director = true
		startOrResetSession(cfg, h.store)

	case "generate":
		if msg.NumPlayers == 0 {
			h.sendError(c, "bad_request", "참여 인원을 설정해주세요.")
			return
		}
		sc, err := h.gen.Generate(msg.NumPlayers)
		if err != nil {
			h.sendError(c, "bad_request", err.Error())
			return
		}
		if err := publishScenario(h.store, sc); err != nil {
			h.sendStoreError(c, err)
			return
		}
		logf(cfg, "TABLE: Scenario %q generated for %d players", sc.HandInfo.Title, sc.NumPlayers)

	case "claim_role":
		err := claimRole(h.store, RoleID(msg.RoleID), c.identity)
		switch {
		case errors.Is(err, ErrRoleUnavailable):
			h.sendError(c, "role_unavailable", "이미 다른 사람이 선택한 역할입니다.")
		case err != nil:
			h.sendStoreError(c, err)
		default:
			logf(cfg, "TABLE: Identity %s claimed role %q", c.identity, msg.RoleID)
		}

	case "leave":
		if err := releaseRole(h.store, c.identity); err != nil && !errors.Is(err, ErrSessionNotFound) {
			h.sendStoreError(c, err)
			return
		}
		c.flips = [2]bool{}
		h.trySend(c, SimpleMessage{
			Type:    "left",
			Message: "세션에서 나갔습니다.",
		})

	case "reveal":
		if msg.CardIndex == nil {
			return
		}
		if err := revealBoardCard(h.store, c.identity, *msg.CardIndex); err != nil {
			h.sendStoreError(c, err)
		}

	case "flip_card":
		if msg.CardIndex == nil || *msg.CardIndex < 0 || *msg.CardIndex > 1 {
			return
		}
		if !h.seatedWithHand(c) {
			return
		}
		c.flips[*msg.CardIndex] = !c.flips[*msg.CardIndex]
		h.sendView(c)

	default:
		// ignore unknown types
	}
}

// seatedWithHand reports whether the client currently occupies a seat
// that has cards in the live scenario.
func (h *Hub) seatedWithHand(c *Client) bool {
	if !h.last.Exists || h.last.Session.Scenario == nil {
		return false
	}
	seat := h.last.Session.roleHeldBy(c.identity).Seat()
	if seat == 0 {
		return false
	}
	_, ok := h.last.Session.Scenario.PlayerHands[seat]
	return ok
}

// sendView projects the latest snapshot for one client, maintaining the
// per-connection flip state: the flips reset whenever the observed
// board state re-enters pre-deal, or the client's seat changes.
func (h *Hub) sendView(c *Client) {
	snap := h.last

	var board BoardState
	seat := 0
	if snap.Exists {
		seat = snap.Session.roleHeldBy(c.identity).Seat()
		if snap.Session.Scenario != nil {
			board = snap.Session.Scenario.GameState.BoardState
		}
	}

	if c.lastBoard != "" && c.lastBoard != BoardPreDeal && board == BoardPreDeal {
		c.flips = [2]bool{}
	}
	if seat != c.lastSeat {
		c.flips = [2]bool{}
	}
	c.lastBoard = board
	c.lastSeat = seat

	h.trySend(c, h.viewFor(c, snap))
}

func (h *Hub) viewFor(c *Client, snap Snapshot) SessionView {
	v := SessionView{
		Type:    "session",
		Present: snap.Exists,
	}
	if !snap.Exists {
		return v
	}

	s := snap.Session
	v.Active = s.IsActive

	v.Roles = make(map[RoleID]RoleStatus, len(s.ClaimedRoles))
	for id, holder := range s.ClaimedRoles {
		v.Roles[id] = RoleStatus{
			Claimed: holder != "",
			Mine:    holder != "" && holder == c.identity,
		}
	}

	role := s.roleHeldBy(c.identity)
	v.MyRole = string(role)

	sc := s.Scenario
	if sc == nil {
		return v
	}

	v.HasScenario = true
	v.NumPlayers = sc.NumPlayers
	v.ActiveSeats = sc.Positions.All
	v.BoardState = sc.GameState.BoardState

	switch {
	case c.director:
		v.Board = sc.HandInfo.Board
		v.Scenario = &ScenarioDetail{
			Title:     sc.HandInfo.Title,
			Board:     sc.HandInfo.Board,
			Hands:     sc.HandInfo.Hands,
			Positions: sc.Positions,
			Rule:      sc.Rule,
		}

	case role == RoleDealer:
		// The dealer places every card, so the full board ships; the
		// client keeps unrevealed cards face down.
		v.Board = sc.HandInfo.Board

	default:
		v.Board = sc.HandInfo.Board[:revealedCount(sc.GameState.BoardState)]
		if seat := role.Seat(); seat != 0 {
			if hand, ok := sc.PlayerHands[seat]; ok {
				v.MyHand = hand[:]
				v.Flips = []bool{c.flips[0], c.flips[1]}
			}
		}
	}

	return v
}

func (h *Hub) sendStoreError(c *Client, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		h.sendError(c, "session_not_found", "현재 활성화된 리허설 세션이 없습니다. 감독이 세션을 시작할 때까지 기다려주세요.")
		return
	}
	h.sendError(c, "bad_request", err.Error())
}

func (h *Hub) sendError(c *Client, code, message string) {
	h.trySend(c, ErrorMessage{
		Type:    "error",
		Code:    code,
		Message: message,
	})
}

func (h *Hub) trySend(c *Client, msg any) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const identityCookieName = "vtp_id"

func getOrSetIdentity(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(identityCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     identityCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// WebSocket handler for the single shared table.
func serveWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		identity := getOrSetIdentity(w, r)
		if identity == "" {
			http.Error(w, "unable to assign identity", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			identity: identity,
		}

		hub.register <- client

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "director", "start_session", "generate", "claim_role", "leave", "reveal", "flip_card":
			h.commands <- clientCommand{
				client: c,
				msg:    msg,
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the table URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../table/qr; strip trailing "/qr" to get the table URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func getTableHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		cspTable(w)

		_ = getOrSetIdentity(w, r)

		_, _ = w.Write([]byte(tableHTML))
	}
}

// registerTable sets up routes so that:
//   - $path        → HTML client
//   - $path/ws     → WebSocket for the shared table
//   - $path/qr     → PNG QR code for the table URL
func registerTable(cfg *Config, path string, mux *httprouter.Router, store *SessionStore, gen *Generator) {
	hub := newHub(store, gen)
	go hub.run(cfg)

	mux.GET(cfg.prefix+path, getTableHandler(cfg))
	mux.GET(cfg.prefix+path+"/ws", serveWS(hub))
	mux.GET(cfg.prefix+path+"/qr", qrHandler)
}
