package model

// ClientPlayer is the seat info sent to clients.
type ClientPlayer struct {
	ID    string `json:"name"`
	Color string `json:"color"`
	ClientClock
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)
