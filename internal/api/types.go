package api

// StatusResponse summarizes the daemon and its follower.
type StatusResponse struct {
	Running      bool   `json:"running"`
	State        string `json:"state"`
	PID          int    `json:"pid"`
	Path         string `json:"path"`
	Encoding     string `json:"encoding"`
	Offset       int64  `json:"offset"`
	Subscribers  int    `json:"subscribers"`
	LockFilePath string `json:"lockFilePath,omitempty"`
}

// LinesResponse carries replayed lines in file order.
type LinesResponse struct {
	Lines []string `json:"lines"`
}

// Stream message kinds.
const (
	MessageBackfill = "backfill"
	MessageLine     = "line"
)

// StreamMessage is one WebSocket frame. Backfill frames carry Lines; line
// frames carry Line. Dropped reports lines discarded for this client since
// the previous frame because it could not keep up.
type StreamMessage struct {
	Type    string   `json:"type"`
	Line    string   `json:"line,omitempty"`
	Lines   []string `json:"lines,omitempty"`
	Dropped int      `json:"dropped,omitempty"`
}
