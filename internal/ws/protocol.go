package ws

// Client -> server messages. Every message carries a type tag; unknown
// types are dropped.

type JoinMessage struct {
	Type        string `json:"type"`
	TierID      string `json:"tier_id"`
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
}

type RejoinMessage struct {
	Type        string `json:"type"`
	GameID      string `json:"game_id"`
	Address     string `json:"address"`
	LastEventID string `json:"last_event_id,omitempty"`
}

type ActionMessage struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

// Server -> client messages. Game facts are forwarded as the manager's
// stream events; these wrap direct replies.

type JoinResult struct {
	Type   string `json:"type"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Queued bool   `json:"queued,omitempty"`
}

type ActionResult struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}
