package daemon

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"logwatch/internal/api"
	"logwatch/internal/logging"
	"logwatch/internal/metrics"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamReadLimit  = 512
)

// streamClient adapts one WebSocket connection to the watcher's callback
// interface. enqueue never blocks: when the buffer is full the line is
// counted as dropped and reported with the next frame.
type streamClient struct {
	conn    *websocket.Conn
	send    chan string
	dropped atomic.Int64
	closed  chan struct{}
}

func newStreamClient(conn *websocket.Conn, buffer int) *streamClient {
	return &streamClient{
		conn:   conn,
		send:   make(chan string, buffer),
		closed: make(chan struct{}),
	}
}

func (c *streamClient) enqueue(line string) {
	select {
	case c.send <- line:
	default:
		c.dropped.Add(1)
		metrics.StreamDropped.Inc()
	}
}

func (c *streamClient) write(msg api.StreamMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return c.conn.WriteJSON(msg)
}

// readLoop discards client frames and closes c.closed once the peer goes away.
func (c *streamClient) readLoop() {
	defer close(c.closed)
	c.conn.SetReadLimit(streamReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop pumps queued lines to the socket until the peer disconnects, a
// write fails, or ctx ends.
func (c *streamClient) writeLoop(ctx context.Context) error {
	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(streamWriteWait))
			return nil
		case <-c.closed:
			return nil
		case line := <-c.send:
			msg := api.StreamMessage{Type: api.MessageLine, Line: line, Dropped: int(c.dropped.Swap(0))}
			if err := c.write(msg); err != nil {
				return err
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return err
			}
		}
	}
}

func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.streams.Add(1)
	defer s.streams.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	client := newStreamClient(conn, s.buffer)
	if err := client.write(api.StreamMessage{Type: api.MessageBackfill, Lines: s.watcher.LastLines(s.replayLines)}); err != nil {
		s.logger.Debug("websocket backfill failed",
			logging.String(logging.FieldRemoteAddr, remote),
			logging.Error(err),
		)
		return
	}

	sub := s.watcher.Subscribe(client.enqueue)
	defer s.watcher.Unregister(sub)
	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()
	s.logger.Info("stream client connected",
		logging.String(logging.FieldEventType, "stream_connected"),
		logging.String(logging.FieldRemoteAddr, remote),
		logging.String(logging.FieldSubscriptionID, sub.ID()),
	)

	go client.readLoop()
	if err := client.writeLoop(r.Context()); err != nil {
		s.logger.Debug("websocket write failed",
			logging.String(logging.FieldRemoteAddr, remote),
			logging.Error(err),
		)
	}
	s.logger.Info("stream client disconnected",
		logging.String(logging.FieldEventType, "stream_disconnected"),
		logging.String(logging.FieldRemoteAddr, remote),
		logging.String(logging.FieldSubscriptionID, sub.ID()),
		logging.Int64("dropped", client.dropped.Load()),
	)
}
