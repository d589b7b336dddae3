package events

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Actions published for catalog writes.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const subscriberBuffer = 16

// Event describes a committed write to a store's catalog.
type Event struct {
	StoreID string    `json:"storeId"`
	Entity  string    `json:"entity"`
	Action  string    `json:"action"`
	Slug    string    `json:"slug,omitempty"`
	At      time.Time `json:"at"`
}

// Hub fans catalog events out to the dashboards watching a store.
type Hub struct {
	mu       sync.Mutex
	subs     map[string]map[*Subscription]struct{}
	upgrader websocket.Upgrader
	now      func() time.Time
}

// Subscription receives the events of one store on C until Close is called.
type Subscription struct {
	C       chan Event
	storeID string
	hub     *Hub
	once    sync.Once
}

// NewHub builds an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		now: time.Now,
	}
}

// Subscribe registers a listener for storeID.
func (h *Hub) Subscribe(storeID string) *Subscription {
	sub := &Subscription{C: make(chan Event, subscriberBuffer), storeID: storeID, hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[storeID] == nil {
		h.subs[storeID] = make(map[*Subscription]struct{})
	}
	h.subs[storeID][sub] = struct{}{}
	return sub
}

// Close unregisters the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		delete(h.subs[s.storeID], s)
		if len(h.subs[s.storeID]) == 0 {
			delete(h.subs, s.storeID)
		}
		h.mu.Unlock()
		close(s.C)
	})
}

// Publish delivers evt to every subscriber of its store. A subscriber whose buffer is
// full misses the event instead of blocking the writer.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = h.now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[evt.StoreID] {
		select {
		case sub.C <- evt:
		default:
		}
	}
}

// Subscribers returns the number of listeners for storeID.
func (h *Hub) Subscribers(storeID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[storeID])
}

// ServeHTTP upgrades the request to a websocket and streams events for the store
// named by the "store" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store")
	if storeID == "" {
		http.Error(w, "store is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[events] upgrade:", err)
		return
	}
	defer conn.Close()

	sub := h.Subscribe(storeID)
	defer sub.Close()

	// The read loop only detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[events] read: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case evt := <-sub.C:
			if err := conn.WriteJSON(evt); err != nil {
				log.Printf("[events] write: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
