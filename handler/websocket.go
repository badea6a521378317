package handler

import (
	"bus_portal/database"
	"bus_portal/helper"
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type seatMessage struct {
	Type string          `json:"type"`
	Data *helper.SeatMap `json:"data"`
}

var (
	clients       = make(map[uint]map[*websocket.Conn]bool)
	subscriptions = make(map[uint]context.CancelFunc)
	mu            sync.Mutex
)

// TripSeatsWebsocket streams the seat map of /ws/trips/:tripId. The current
// map is sent on connect, then every change.
func TripSeatsWebsocket(c *websocket.Conn) {
	id64, err := strconv.ParseUint(c.Params("tripId"), 10, 64)
	if err != nil || id64 == 0 {
		c.WriteJSON(map[string]string{"type": "error", "message": "invalid trip id"})
		c.Close()
		return
	}
	tripId := uint(id64)

	seatMap, err := helper.LoadSeatMap(database.DB, tripId)
	if err != nil {
		c.WriteJSON(map[string]string{"type": "error", "message": "trip not found"})
		c.Close()
		return
	}

	mu.Lock()
	if err := c.WriteJSON(seatMessage{Type: "seats", Data: seatMap}); err != nil {
		mu.Unlock()
		c.Close()
		return
	}
	if clients[tripId] == nil {
		clients[tripId] = make(map[*websocket.Conn]bool)
	}
	clients[tripId][c] = true
	if helper.Redis != nil && subscriptions[tripId] == nil {
		subscriptions[tripId] = subscribeTrip(tripId)
	}
	mu.Unlock()

	defer func() {
		mu.Lock()
		removeClient(tripId, c)
		mu.Unlock()
		c.Close()
	}()

	// clients only listen; reading detects the disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// removeClient must be called with mu held.
func removeClient(tripId uint, conn *websocket.Conn) {
	if clients[tripId] == nil {
		return
	}
	delete(clients[tripId], conn)
	if len(clients[tripId]) > 0 {
		return
	}
	delete(clients, tripId)
	if cancel := subscriptions[tripId]; cancel != nil {
		cancel()
		delete(subscriptions, tripId)
	}
}

func subscribeTrip(tripId uint) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := helper.Redis.Subscribe(ctx, helper.TripSeatChannel(tripId))

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fanOut(tripId, []byte(msg.Payload))
			}
		}
	}()
	return cancel
}

func fanOut(tripId uint, payload []byte) {
	mu.Lock()
	defer mu.Unlock()
	for conn := range clients[tripId] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(clients[tripId], conn)
		}
	}
}

func hasLocalListeners(tripId uint) bool {
	mu.Lock()
	defer mu.Unlock()
	return len(clients[tripId]) > 0
}

// BroadcastTripSeats pushes the current seat map of a trip to every listener,
// through Redis when it is up so that all instances receive it.
func BroadcastTripSeats(tripId uint) {
	if helper.Redis == nil && !hasLocalListeners(tripId) {
		return
	}
	seatMap, err := helper.LoadSeatMap(database.DB, tripId)
	if err != nil {
		log.Printf("[WS] load seat map for trip %d: %v", tripId, err)
		return
	}
	msg := seatMessage{Type: "seats", Data: seatMap}

	if helper.Redis != nil {
		if err := helper.Publish(context.Background(), helper.TripSeatChannel(tripId), msg); err != nil {
			log.Printf("[WS] publish trip %d: %v", tripId, err)
		}
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	fanOut(tripId, payload)
}
