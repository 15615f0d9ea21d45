package websocket

import (
	"log"

	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// LocalDay is the c.Locals key holding the validated day number for Serve.
const LocalDay = "day"

// Serve returns the handler that upgrades a request to a WebSocket and streams
// broadcasts for the day stored under LocalDay. Whatever runs before it on the
// route is responsible for validating the day.
func Serve(hub *Hub) fiber.Handler {
	upgrade := fiberws.New(func(conn *fiberws.Conn) {
		day, _ := conn.Locals(LocalDay).(int)
		client := NewClient(day)
		hub.Register(client)

		quit := make(chan struct{})
		written := make(chan struct{})
		go func() {
			defer close(written)
			for {
				select {
				case data, ok := <-client.Send:
					if !ok {
						_ = conn.WriteMessage(fiberws.CloseMessage, []byte{})
						return
					}
					if err := conn.WriteMessage(fiberws.TextMessage, data); err != nil {
						log.Printf("websocket write failed for day %d: %v", day, err)
						return
					}
				case <-quit:
					return
				}
			}
		}()

		// Spectators don't send anything we act on; reading just notices the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		close(quit)
		hub.Unregister(client)
		<-written
	})

	return func(c *fiber.Ctx) error {
		if !fiberws.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
