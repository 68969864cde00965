// Package server exposes the companion over HTTP: the voice page, the chat
// API, history/profile access and a thin TTS proxy for the browser.
package server

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"VoiceCompanion/internal/adapter/kvstore"
	"VoiceCompanion/internal/config"
	"VoiceCompanion/internal/service/companion"
	"VoiceCompanion/internal/service/history"
	"VoiceCompanion/internal/service/profile"
	"VoiceCompanion/internal/service/tts"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed web
var webFS embed.FS

type Server struct {
	cfg       *config.Config
	companion *companion.Companion
	synth     tts.Synthesizer
	kv        kvstore.Store
	logger    *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*companion.Session
}

func New(cfg *config.Config, comp *companion.Companion, synth tts.Synthesizer, kv kvstore.Store, logger *zap.SugaredLogger) *Server {
	return &Server{
		cfg:       cfg,
		companion: comp,
		synth:     synth,
		kv:        kv,
		logger:    logger,
		sessions:  make(map[string]*companion.Session),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/tts", s.handleTTS)
	mux.HandleFunc("/ws", s.handleWS)

	pages, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(pages)))
	return mux
}

// session returns the memory bundle for a client, creating it on first use.
// Each client owns two storage keys, one for history and one for profile.
func (s *Server) session(clientID string) *companion.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[clientID]; ok {
		return sess
	}
	sess := &companion.Session{
		History: history.New(s.kv, clientID+"/history", s.cfg.MaxHistory, s.logger),
		Profile: profile.New(s.kv, clientID+"/profile", s.logger),
	}
	s.sessions[clientID] = sess
	return sess
}

type chatRequest struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}

type chatResponse struct {
	ClientID string `json:"clientId"`
	Reply    string `json:"reply"`
	Context  string `json:"context"` // summary the next reply will be conditioned on
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	}

	sess := s.session(req.ClientID)
	reply := s.companion.Respond(r.Context(), sess, req.Message)
	writeJSON(w, chatResponse{
		ClientID: req.ClientID,
		Reply:    reply,
		Context:  sess.Profile.ContextSummary(sess.History.Read()),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "clientId is required", http.StatusBadRequest)
		return
	}
	sess := s.session(clientID)
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string][]history.Message{"messages": sess.History.Read()})
	case http.MethodDelete:
		sess.History.Clear()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet+", "+http.MethodDelete)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "clientId is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.session(clientID).Profile.Profile())
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// handleTTS synthesizes a clip for the browser to play. Nothing in the core
// depends on the result.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	audio, err := s.synth.Synthesize(r.Context(), req.Text, req.Language)
	if err != nil {
		s.logger.Errorw("tts synthesis failed", "error", err)
		http.Error(w, "synthesis failed", http.StatusBadGateway)
		return
	}
	if len(audio) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	_, _ = w.Write(audio)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
