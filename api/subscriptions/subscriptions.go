// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/api/utils"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/metrics"
	"github.com/vechain/sequencer/staking"
)

var logger = log.WithContext("pkg", "subscriptions")

var (
	metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_ws_subscriptions")
	metricDroppedEvents       = metrics.LazyLoadCounter("api_ws_dropped_events_count")
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
	// events buffered per subscriber before new ones are dropped
	listenerBuffer = 256
)

// Source publishes committed ledger events.
type Source interface {
	SubscribeEvents(ch chan *staking.Record) event.Subscription
}

type Subscriptions struct {
	upgrader *websocket.Upgrader
	sub      event.Subscription
	records  chan *staking.Record

	mu        sync.RWMutex
	listeners map[chan *staking.Record]struct{}

	done     chan struct{}
	closeOne sync.Once
	wg       sync.WaitGroup
}

// New subscribes to source and fans its events out to websocket subscribers.
// Slow subscribers miss events rather than hold the source back.
func New(source Source, allowedOrigins []string) *Subscriptions {
	s := &Subscriptions{
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		records:   make(chan *staking.Record, listenerBuffer),
		listeners: make(map[chan *staking.Record]struct{}),
		done:      make(chan struct{}),
	}
	s.sub = source.SubscribeEvents(s.records)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchLoop()
	}()
	return s
}

func (s *Subscriptions) subscribe(ch chan *staking.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[ch] = struct{}{}
}

func (s *Subscriptions) unsubscribe(ch chan *staking.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, ch)
}

func (s *Subscriptions) dispatchLoop() {
	defer s.sub.Unsubscribe()
	for {
		select {
		case r := <-s.records:
			s.mu.RLock()
			for lsn := range s.listeners {
				select {
				case lsn <- r:
				default:
					metricDroppedEvents().Add(1)
				}
			}
			s.mu.RUnlock()
		case err := <-s.sub.Err():
			if err != nil {
				logger.Warn("event source failed", "error", err)
			}
			return
		case <-s.done:
			return
		}
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter, err := parseEventFilter(query["kind"], query.Get("account"))
	if err != nil {
		return utils.BadRequest(err)
	}

	select {
	case <-s.done:
		return utils.HTTPError(errors.New("subscriptions closed"), http.StatusServiceUnavailable)
	default:
	}

	ch := make(chan *staking.Record, listenerBuffer)
	s.subscribe(ch)
	defer s.unsubscribe(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()
	if !s.track() {
		_ = goingAway(conn)
		return nil
	}
	defer s.wg.Done()

	id := uuid.New()
	metricActiveSubscriptions().Add(1)
	defer metricActiveSubscriptions().Add(-1)
	logger.Debug("subscriber connected", "id", id, "remote", req.RemoteAddr)

	if err := s.pipe(conn, ch, filter); err != nil {
		logger.Debug("subscriber dropped", "id", id, "error", err)
		return nil
	}
	logger.Debug("subscriber disconnected", "id", id)
	return nil
}

// track registers a live connection unless the subscriptions are closing.
func (s *Subscriptions) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
		s.wg.Add(1)
		return true
	}
}

// pipe writes matching events to conn until the peer leaves or the subscriptions close.
func (s *Subscriptions) pipe(conn *websocket.Conn, ch chan *staking.Record, filter *EventFilter) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case r := <-ch:
			if !filter.Match(r.Event) {
				continue
			}
			msg, err := newEventMessage(r)
			if err != nil {
				return err
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			return goingAway(conn)
		}
	}
}

func goingAway(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing")
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// Close ends every subscription and waits for their connections to be released.
func (s *Subscriptions) Close() {
	s.closeOne.Do(func() {
		s.mu.Lock()
		close(s.done)
		s.mu.Unlock()
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
