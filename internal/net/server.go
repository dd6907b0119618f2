package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"Whiteboard/internal/export"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

const (
	// APIPrefix is the root of the backend API.
	APIPrefix = "/whiteboard"
	// DefaultFilename is used when a save names no file.
	DefaultFilename = "whiteboard.json"

	maxBody = 32 << 20
)

// Server is the storage backend: an HTTP API over a disk store plus the
// websocket feed announcing saves.
type Server struct {
	store *store.Disk
	hub   *Hub
	mux   *http.ServeMux
}

func NewServer(d *store.Disk) *Server {
	s := &Server{store: d, hub: NewHub(), mux: http.NewServeMux()}
	s.mux.HandleFunc("POST "+APIPrefix+"/save", s.handleSave)
	s.mux.HandleFunc("POST "+APIPrefix+"/save/image", s.handleSaveImage)
	s.mux.HandleFunc("GET "+APIPrefix+"/files", s.handleFiles)
	s.mux.HandleFunc("GET "+APIPrefix+"/load/{id}", s.handleLoad)
	s.mux.HandleFunc("GET "+APIPrefix+"/image/{name}", s.handleImage)
	s.mux.Handle("GET "+APIPrefix+"/feed", s.hub)
	return s
}

// Hub is the feed of this server.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP answers CORS preflights, so a browser front end on another
// origin can use the API, and logs every request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	log.Printf("[HTTP] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack hands the connection over to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) readSave(w http.ResponseWriter, r *http.Request) (string, state.ShapeList, bool) {
	var req store.SaveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return "", nil, false
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("[]")
	}
	doc, err := state.Unmarshal(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}
	if req.Filename == "" {
		req.Filename = DefaultFilename
	}
	return req.Filename, doc, true
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	name, doc, ok := s.readSave(w, r)
	if !ok {
		return
	}
	id, err := s.store.Save(r.Context(), name, doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if info, err := s.store.Info(id); err == nil {
		s.hub.Announce(info)
	}
	writeJSON(w, http.StatusOK, store.SaveResponse{ID: id})
}

func (s *Server) handleSaveImage(w http.ResponseWriter, r *http.Request) {
	name, doc, ok := s.readSave(w, r)
	if !ok {
		return
	}
	err := s.store.SaveImage(r.Context(), name, doc)
	switch {
	case errors.Is(err, export.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), store.FileID(r.PathValue("id")))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := state.Encode(w, doc); err != nil {
		log.Printf("[HTTP] Writing document: %v", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	path := s.store.ImagePath(r.PathValue("name"))
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, store.ErrNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// Run serves on addr until ctx is cancelled. When advertise is set the
// backend is also announced over mDNS.
func (s *Server) Run(ctx context.Context, addr string, advertise bool) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if advertise {
		m, err := Advertise(port)
		if err != nil {
			log.Printf("[MDNS] Not advertising: %v", err)
		} else {
			defer m.Shutdown()
		}
	}

	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[HTTP] Whiteboard backend listening on %s (%s)", ln.Addr(), BackendURL(port))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
