package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWS_TranscriptGetsReply(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "?clientId=ws-1")
	require.NoError(t, conn.WriteJSON(wsMessage{Type: "transcript", Text: "안녕하세요"}))

	var reply wsMessage
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "reply", reply.Type)
	require.NotEmpty(t, reply.Text)

	// The exchange went through the same history store as the HTTP API.
	msgs := srv.session("ws-1").History.Read()
	require.Len(t, msgs, 2)
	require.Equal(t, "안녕하세요", msgs[0].Content)
}

func TestWS_RejectsMalformedFrame(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "")
	require.NoError(t, conn.WriteJSON(wsMessage{Type: "noise"}))

	var reply wsMessage
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "error", reply.Type)
}

func TestWS_PlainHTTPGetFails(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
