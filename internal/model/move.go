package model

// WSMove is the move payload accepted over the websocket and REST surface:
// either algebraic squares with an optional promotion kind, or raw move text
// (SAN-like or coordinate pairs).
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
	Text      string `json:"text"`
}

// MoveView is a client-facing move description. WhaleTo and Horizontal are
// present for whale moves only; Horizontal is derived from the final pair,
// never stored.
type MoveView struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Kind       string   `json:"kind,omitempty"`
	Capture    bool     `json:"capture,omitempty"`
	Promotion  string   `json:"promotion,omitempty"`
	Text       string   `json:"text,omitempty"`
	WhaleTo    []string `json:"whaleTo,omitempty"`
	Horizontal bool     `json:"horizontal,omitempty"`
}

// PieceView is one occupied square in the client board snapshot.
type PieceView struct {
	Square string `json:"square"`
	Color  string `json:"color"`
	Kind   string `json:"kind"`
	Role   string `json:"role"`
}

// CoralView is one coral-tagged square.
type CoralView struct {
	Square string `json:"square"`
	Color  string `json:"color"`
}

type CapturedPieces struct {
	White []PieceView `json:"white"`
	Black []PieceView `json:"black"`
}
