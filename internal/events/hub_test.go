package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPublishReachesOnlyStoreSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("store-a")
	b := hub.Subscribe("store-b")
	defer a.Close()
	defer b.Close()

	hub.Publish(Event{StoreID: "store-a", Entity: "blog", Action: ActionCreated, Slug: "hello"})

	select {
	case evt := <-a.C:
		if evt.Slug != "hello" || evt.At.IsZero() {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected event for store-a")
	}

	select {
	case evt := <-b.C:
		t.Fatalf("store-b must not receive %+v", evt)
	default:
	}
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("s")
	defer sub.Close()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Event{StoreID: "s", Entity: "products", Action: ActionUpdated})
	}
	if got := len(sub.C); got != subscriberBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, got)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("s")
	if hub.Subscribers("s") != 1 {
		t.Fatalf("expected one subscriber")
	}
	sub.Close()
	sub.Close()
	if hub.Subscribers("s") != 0 {
		t.Fatalf("expected no subscribers after Close")
	}
	hub.Publish(Event{StoreID: "s"})
	if _, ok := <-sub.C; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?store=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("s1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(Event{StoreID: "s1", Entity: "categories", Action: ActionDeleted, Slug: "chairs"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Entity != "categories" || evt.Action != ActionDeleted || evt.Slug != "chairs" {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestServeHTTPRequiresStore(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
