package net

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/gorilla/websocket"
)

// FeedURL turns an API base URL (http://host:port/whiteboard) into the
// websocket URL of its feed.
func FeedURL(base string) string {
	u := strings.TrimRight(base, "/") + "/feed"
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Follow connects to a feed and calls fn for each message until ctx is
// cancelled or the connection drops.
func Follow(ctx context.Context, url string, fn func(Message)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connecting to feed %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("reading feed: %w", err)
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			log.Printf("[FEED] Skipping bad frame: %v", err)
			continue
		}
		fn(m)
	}
}
