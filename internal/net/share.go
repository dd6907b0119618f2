package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"Whiteboard/internal/board"
)

// LivePath is where a shared board streams its snapshots.
const LivePath = APIPrefix + "/live"

// Share streams every change of b to websocket peers listening on addr until
// ctx is cancelled. Peers first get the board as it is now. It must be called
// on b's goroutine and returns the URL peers connect to.
func Share(ctx context.Context, addr string, b *board.Controller) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listening on %s: %w", addr, err)
	}

	h := NewHub()
	h.Publish(board.Snapshot{Revision: b.Revision(), Shapes: b.Shapes()})
	b.Subscribe(h)

	mux := http.NewServeMux()
	mux.Handle("GET "+LivePath, h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[FEED] Sharing stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := LiveURL(ln.Addr().(*net.TCPAddr).Port)
	log.Printf("[FEED] Sharing board on %s", url)
	return url, nil
}

// LiveURL is the feed URL other machines use for a board shared on port.
func LiveURL(port int) string {
	ip, err := OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return "ws://" + net.JoinHostPort(ip, strconv.Itoa(port)) + LivePath
}
