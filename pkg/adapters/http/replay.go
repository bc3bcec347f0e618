package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// maxReplayInterval caps the delay between two frames.
	maxReplayInterval = 10 * time.Second

	replayModeFull = "full"
	replayModeDiff = "diff"
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts non-browser clients and the configured origins. With the
// wildcard configuration only pages served from the request's own host pass, since
// a websocket handshake is not covered by CORS.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	switch s.allowOrigin(origin) {
	case "":
		return false
	case "*":
		return sameHost(origin, r.Host)
	default:
		return true
	}
}

func sameHost(origin, requestHost string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(hostname(u.Host), hostname(requestHost))
}

// hostname strips the port from host, keeping IPv6 literals intact.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}

type replayQuery struct {
	IntervalMS int    `schema:"interval_ms"`
	From       int    `schema:"from"`
	Mode       string `schema:"mode"`
}

func decodeReplayQuery(values url.Values) (replayQuery, error) {
	q := replayQuery{Mode: replayModeFull}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&q, values); err != nil {
		return q, fmt.Errorf("%w: invalid query parameters: %v", domain.ErrInvalidInput, err)
	}
	if q.Mode == "" {
		q.Mode = replayModeFull
	}
	switch {
	case q.Mode != replayModeFull && q.Mode != replayModeDiff:
		return q, fmt.Errorf("%w: unknown replay mode %q", domain.ErrInvalidInput, q.Mode)
	case q.IntervalMS < 0 || time.Duration(q.IntervalMS)*time.Millisecond > maxReplayInterval:
		return q, fmt.Errorf("%w: interval_ms must be within [0, %d]", domain.ErrInvalidInput, maxReplayInterval.Milliseconds())
	case q.From < 0:
		return q, fmt.Errorf("%w: %d", domain.ErrInvalidStepIndex, q.From)
	}
	return q, nil
}

// ReplaySteps handles GET /api/sort/{algorithm}/replay. It upgrades to a websocket and
// streams the session's steps from the requested index, one JSON message per step.
func (s *Server) ReplaySteps(w http.ResponseWriter, r *http.Request) {
	alg, err := bindPathAlgorithm(chi.URLParam(r, "algorithm"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := decodeReplayQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := sessionID(w, r)
	steps, err := s.Recorder.Steps(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(steps) > 0 && steps[0].Algorithm != alg {
		steps = nil
	}
	if q.From >= len(steps) {
		s.writeError(w, r, fmt.Errorf("%w: %d (run has %d steps)", domain.ErrInvalidStepIndex, q.From, len(steps)))
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("replay: upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// Drain control frames; any read error means the peer went away.
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("replay started", "session_id", id, "algorithm", alg, "from", q.From, "mode", q.Mode)
	interval := time.Duration(q.IntervalMS) * time.Millisecond

	for i := q.From; i < len(steps); i++ {
		if i > q.From && interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(replayFrame(steps, i, q)); err != nil {
			s.logger.Debug("replay: write failed", "session_id", id, "err", err)
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
}

func replayFrame(steps []domain.Step, i int, q replayQuery) any {
	if q.Mode == replayModeDiff {
		if i == q.From {
			return domain.Diff(nil, &steps[i], i)
		}
		return domain.Diff(&steps[i-1], &steps[i], i)
	}
	return domain.StepResponse{
		Message:    domain.StepRetrievedMessage,
		State:      steps[i],
		StepNumber: i,
	}
}
