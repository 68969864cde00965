package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The page and the socket are served from the same origin; a stricter
	// check would only matter with authentication, which this app does not do.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsMessage struct {
	Type string `json:"type"` // transcript|reply|error
	Text string `json:"text"`
}

// handleWS runs a voice session over one WebSocket connection: every
// transcript frame goes through the same chat flow as POST /api/chat and
// comes back as a reply frame. Frames are handled strictly in arrival
// order; there is no cancellation of an in-flight reply when the next
// transcript arrives.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := s.session(clientID)
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnw("websocket read failed", "clientId", clientID, "error", err)
			}
			return
		}
		if msg.Type != "transcript" || msg.Text == "" {
			_ = conn.WriteJSON(wsMessage{Type: "error", Text: "expected a transcript frame"})
			continue
		}
		reply := s.companion.Respond(r.Context(), sess, msg.Text)
		if err := conn.WriteJSON(wsMessage{Type: "reply", Text: reply}); err != nil {
			s.logger.Warnw("websocket write failed", "clientId", clientID, "error", err)
			return
		}
	}
}
