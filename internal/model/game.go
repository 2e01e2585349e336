package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coralclash/coralclash-backend/internal/coral"
	"github.com/coralclash/coralclash-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

// Game owns one engine instance and the observers watching it. The engine
// itself is single-threaded; the game mutex serializes access to it.
type Game struct {
	ID          string
	mu          sync.Mutex
	pos         *coral.Position
	captured    CapturedPieces
	lastMove    *MoveView
	sound       string
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	resigned    string // color of the player who resigned, "" if nobody
	players     struct {
		White ClientPlayer
		Black ClientPlayer
	}
}

// GameState is the client-facing snapshot broadcast after every move.
type GameState struct {
	Sound          string              `json:"sound"`
	FEN            string              `json:"fen"`
	Board          []PieceView         `json:"board"`
	ToMove         string              `json:"toMove"`
	MoveHistory    []string            `json:"moveHistory"`
	CapturedPieces CapturedPieces      `json:"capturedPieces"`
	IsCheck        bool                `json:"isCheck"`
	IsCheckmate    bool                `json:"isCheckmate"`
	IsStalemate    bool                `json:"isStalemate"`
	IsDraw         bool                `json:"isDraw"`
	IsGameOver     bool                `json:"isGameOver"`
	CoralVictor    *string             `json:"coralVictor"` // nullable
	Resolve        *string             `json:"resolve"`     // nullable
	WhalePositions map[string][]string `json:"whalePositions"`
	Coral          []CoralView         `json:"coral"`
	CoralRemaining map[string]int      `json:"coralRemaining"`
	LastMove       *MoveView           `json:"lastMove"` // nullable
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		pos:         coral.NewPosition(),
		captured:    newCapturedPieces(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(time.Duration(600) * time.Second),
		blackClock:  NewClock(time.Duration(600) * time.Second),
	}
}

// NewGameFromFixture restores a game from an exported fixture snapshot.
func NewGameFromFixture(id string, fixture []byte) (*Game, error) {
	pos, err := coral.LoadFixture(fixture)
	if err != nil {
		return nil, err
	}
	g := NewGame(id)
	g.pos = pos
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]PieceView, 0),
		Black: make([]PieceView, 0),
	}
}

func (g *Game) AddPlayer(playerID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: string(PlayerColorWhite), ClientClock: NewClientClock(6000)}
		return string(PlayerColorWhite), nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: string(PlayerColorBlack), ClientClock: NewClientClock(6000)}
		return string(PlayerColorBlack), nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.buildState()
}

func (g *Game) buildState() GameState {
	snap := g.pos.Export()
	state := GameState{
		Sound:          g.sound,
		FEN:            snap.State.FEN,
		Board:          make([]PieceView, 0, len(snap.State.Board)),
		ToMove:         snap.State.Turn,
		MoveHistory:    snap.State.History,
		CapturedPieces: g.captured,
		IsCheck:        snap.State.InCheck,
		IsCheckmate:    snap.State.IsCheckmate,
		IsStalemate:    snap.State.IsStalemate,
		IsDraw:         snap.State.IsDraw,
		IsGameOver:     snap.State.IsGameOver || g.resigned != "",
		WhalePositions: snap.State.WhalePositions,
		Coral:          make([]CoralView, 0, len(snap.State.Coral)),
		CoralRemaining: snap.State.CoralRemaining,
		LastMove:       g.lastMove,
	}
	for _, cell := range snap.State.Board {
		state.Board = append(state.Board, PieceView{
			Square: cell.Square,
			Color:  cell.Color,
			Kind:   cell.Kind,
			Role:   cell.Role,
		})
	}
	for _, tag := range snap.State.Coral {
		state.Coral = append(state.Coral, CoralView{Square: tag.Square, Color: tag.Color})
	}
	if victor, ok := g.pos.CoralVictor(); ok {
		v := victor.String()
		state.CoralVictor = &v
	}
	if resolve := g.resolveText(); resolve != "" {
		state.Resolve = &resolve
	}
	state.Players.White = g.players.White
	state.Players.Black = g.players.Black
	return state
}

func (g *Game) resolveText() string {
	switch {
	case g.resigned != "":
		return g.resigned + " resigned"
	case g.pos.IsCheckmate():
		return "checkmate"
	case g.pos.IsCoralVictory():
		victor, _ := g.pos.CoralVictor()
		return "coral victory " + victor.String()
	case g.pos.IsStalemate():
		return "stalemate"
	case g.pos.IsDraw():
		return "draw"
	}
	return ""
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.players.White.ID != "" && g.players.White.ID == playerID {
		return true
	}
	if g.players.Black.ID != "" && g.players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) playerColor(playerID string) string {
	if playerID == "" {
		return ""
	}
	if g.players.White.ID == playerID {
		return "white"
	}
	if g.players.Black.ID == playerID {
		return "black"
	}
	return ""
}

// MakeMove validates and applies a move, updates clocks and captured-piece
// bookkeeping, and broadcasts the new state.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pos.IsGameOver() || g.resigned != "" {
		return errors.New("game is over")
	}
	if seat := g.playerColor(playerID); seat != "" && seat != g.pos.Turn().String() {
		return errors.New("not your turn")
	}

	mover := g.pos.Turn()
	coralBefore := g.pos.CoralRemaining(coral.White) + g.pos.CoralRemaining(coral.Black)

	applied, err := g.executeMove(move)
	if err != nil {
		return err
	}

	// Stop the mover's clock, start the opponent's.
	if mover == coral.White {
		g.whiteClock.Stop()
		g.blackClock.Start()
	} else {
		g.blackClock.Stop()
		g.whiteClock.Start()
	}
	g.players.White.ClientClock = g.whiteClock.Client()
	g.players.Black.ClientClock = g.blackClock.Client()

	for _, cap := range applied.Captured {
		view := PieceView{
			Square: cap.Square.String(),
			Color:  cap.Color.String(),
			Kind:   cap.Kind.String(),
			Role:   cap.Role.String(),
		}
		if cap.Color == coral.White {
			g.captured.White = append(g.captured.White, view)
		} else {
			g.captured.Black = append(g.captured.Black, view)
		}
	}

	g.lastMove = &MoveView{From: applied.From.String(), To: applied.To.String()}
	if applied.Kind == coral.Whale {
		g.lastMove.WhaleTo = []string{applied.WhaleTo.First.String(), applied.WhaleTo.Second.String()}
		g.lastMove.Horizontal = applied.WhaleTo.Horizontal()
	}

	coralAfter := g.pos.CoralRemaining(coral.White) + g.pos.CoralRemaining(coral.Black)
	switch {
	case g.pos.InCheck():
		g.sound = "check"
	case len(applied.Captured) > 0:
		g.sound = "capture"
	case coralAfter != coralBefore:
		g.sound = "coral"
	default:
		g.sound = "move"
	}

	go g.broadcastState()
	return nil
}

func (g *Game) executeMove(move WSMove) (coral.Move, error) {
	if move.Text != "" {
		return g.pos.MakeMoveText(move.Text)
	}
	from, okFrom := coral.ParseSquare(move.From)
	to, okTo := coral.ParseSquare(move.To)
	if !okFrom || !okTo {
		return coral.Move{}, fmt.Errorf("invalid move squares %q %q", move.From, move.To)
	}
	req := coral.Move{From: from, To: to}
	if move.Promotion != "" {
		req.Promotion = kindFromName(move.Promotion)
		if req.Promotion == coral.KindNone {
			return coral.Move{}, fmt.Errorf("invalid promotion %q", move.Promotion)
		}
	}
	return g.pos.MakeMove(req)
}

// LegalMoves returns the side to move's legal moves, optionally scoped to
// one square, in verbose form with compact text attached.
func (g *Game) LegalMoves(square string) ([]MoveView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var moves []coral.Move
	if square != "" {
		sq, ok := coral.ParseSquare(square)
		if !ok {
			return nil, fmt.Errorf("invalid square %q", square)
		}
		moves = g.pos.LegalMovesFrom(sq)
	} else {
		moves = g.pos.LegalMoves()
	}
	views := make([]MoveView, 0, len(moves))
	for _, m := range moves {
		view := MoveView{
			From:    m.From.String(),
			To:      m.To.String(),
			Kind:    m.Kind.String(),
			Capture: m.IsCapture(),
			Text:    g.pos.SAN(m),
		}
		if m.Kind == coral.Whale {
			view.WhaleTo = []string{m.WhaleTo.First.String(), m.WhaleTo.Second.String()}
			view.Horizontal = m.WhaleTo.Horizontal()
		}
		if m.Promotion != coral.KindNone {
			view.Promotion = m.Promotion.String()
		}
		views = append(views, view)
	}
	return views, nil
}

// Resign ends the game in favor of the opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.playerColor(playerID)
	if seat == "" {
		return errors.New("not a player in this game")
	}
	if g.pos.IsGameOver() || g.resigned != "" {
		return errors.New("game is over")
	}
	g.resigned = seat
	g.whiteClock.Stop()
	g.blackClock.Stop()

	go g.broadcastState()
	return nil
}

// ExportFixture renders the game's position as fixture JSON.
func (g *Game) ExportFixture() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return json.Marshal(g.pos.Export())
}

func kindFromName(name string) coral.Kind {
	switch name {
	case "crab":
		return coral.Crab
	case "turtle":
		return coral.Turtle
	case "octopus":
		return coral.Octopus
	case "pufferfish":
		return coral.Pufferfish
	case "dolphin":
		return coral.Dolphin
	case "whale":
		return coral.Whale
	}
	return coral.KindNone
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

// broadcastState sends the current snapshot to every registered connection,
// dropping connections that fail to write.
func (g *Game) broadcastState() {
	g.mu.Lock()
	state := g.buildState()
	g.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		fmt.Println("Failed to marshal state to JSON", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			fmt.Println("Failed to send state to player", playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
