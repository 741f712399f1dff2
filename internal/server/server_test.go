package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/electric-chair/internal/config"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/server/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.PublicDir = t.TempDir()
	cfg.Game.StartDelay = 10
	cfg.Game.TurnDelay = 10
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()
	s, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
}

// readUntil 读取消息直到出现指定类型，返回该消息
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", msgType)
		if msg["type"] == msgType {
			return msg
		}
	}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_EndToEndExchange(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, testConfig(t))
	p1 := dial(t, ts, nil)
	p2 := dial(t, ts, nil)

	send(t, p1, `{"type":"CREATE_ROOM","playerName":"Alice"}`)
	created := readUntil(t, p1, "ROOM_CREATED")
	assert.Equal(t, "p1", created["yourId"])
	code, _ := created["roomCode"].(string)
	require.Len(t, code, 4)

	send(t, p2, `{"type":"JOIN_ROOM","roomCode":"`+strings.ToLower(code)+`","playerName":"Bob"}`)
	joined := readUntil(t, p2, "ROOM_JOINED")
	assert.Equal(t, "Alice", joined["opponentName"])
	assert.Equal(t, "Bob", readUntil(t, p1, "OPPONENT_JOINED")["opponentName"])

	turn := readUntil(t, p2, "YOUR_TURN_SET_TRAP")
	assert.Equal(t, "Bob", turn["setterName"])
	assert.Equal(t, "Alice", turn["sitterName"])
	assert.Len(t, turn["chairs"], 12)
	readUntil(t, p1, "WAIT_FOR_TRAP")

	send(t, p2, `{"type":"SET_TRAP","chair":5}`)
	readUntil(t, p2, "TRAP_SET_OK")
	readUntil(t, p1, "YOUR_TURN_CHOOSE_CHAIR")

	send(t, p1, `{"type":"CHOOSE_CHAIR","chair":5}`)
	r1 := readUntil(t, p1, "REVEAL")
	r2 := readUntil(t, p2, "REVEAL")
	assert.Equal(t, r1, r2, "both players see the same reveal")
	assert.Equal(t, "OUT", r1["result"])
	assert.InDelta(t, 0, r1["scoreGained"], 0)
	assert.Equal(t, "p1", r1["sitterId"])

	send(t, p1, `{"type":"REVEAL_ACK"}`)
	send(t, p2, `{"type":"REVEAL_ACK"}`)
	next := readUntil(t, p1, "YOUR_TURN_SET_TRAP")
	assert.Equal(t, "Alice", next["setterName"])
	assert.Equal(t, []any{"OUT", nil, nil, nil, nil, nil, nil, nil}, next["innings"].(map[string]any)["p1"])

	// 断开后对手收到通知，房间保留给留下的一方
	require.NoError(t, p1.Close())
	readUntil(t, p2, "OPPONENT_DISCONNECTED")
	assert.Eventually(t, func() bool { return s.GetOnlineCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.RoomManager().RoomCount())

	require.NoError(t, p2.Close())
	assert.Eventually(t, func() bool { return s.RoomManager().RoomCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_ErrorReplies(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig(t))
	c := dial(t, ts, nil)

	// 格式错误的消息被忽略，后续消息照常处理
	send(t, c, `not json`)
	send(t, c, `{"type":"NOPE"}`)
	send(t, c, `{"type":"JOIN_ROOM","roomCode":"0000"}`)

	errMsg := readUntil(t, c, "ERROR")
	assert.InDelta(t, 2001, errMsg["code"], 0)
	assert.NotEmpty(t, errMsg["message"])
}

func TestServer_OriginRejected(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Security.AllowedOrigins = []string{"https://game.example.com"}
	_, ts := newTestServer(t, cfg)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	dial(t, ts, http.Header{"Origin": {"https://game.example.com"}})
}

func TestServer_MaxConnections(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Server.MaxConnections = 1
	_, ts := newTestServer(t, cfg)

	dial(t, ts, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_LandingPage(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Server.PublicDir, "index.html"), []byte("<h1>电椅</h1>"), 0o600))
	_, ts := newTestServer(t, cfg)

	for _, path := range []string{"/", "/index.html"} {
		resp, body := get(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "<h1>电椅</h1>", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	}

	resp, _ := get(t, ts.URL+"/styles.css")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_LandingPageMissing(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig(t))
	resp, _ := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_HealthQRMetrics(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig(t))

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	resp, body = get(t, ts.URL+"/qr")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	dial(t, ts, nil)
	resp, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "electric_chair_online_players")
}

func TestServer_MetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Metrics.Enabled = false
	_, ts := newTestServer(t, cfg)

	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_LeaderboardWithoutRedis(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig(t))

	resp, body := get(t, ts.URL+"/leaderboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, _ = get(t, ts.URL+"/leaderboard?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = get(t, ts.URL+"/matches")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, _ = get(t, ts.URL+"/matches?limit=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_WithRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("room:OLD1", `{"code":"OLD1"}`))

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	s, ts := newTestServer(t, cfg)

	assert.False(t, mr.Exists("room:OLD1"), "stale snapshots are cleared on startup")

	store, ok := s.store.(*storage.RedisStore)
	require.True(t, ok)
	require.NoError(t, store.RecordMatch(context.Background(), &storage.MatchResult{
		RoomCode: "ABCD", WinnerID: "p1", WinnerName: "Alice", Reason: "score",
	}))

	resp, body := get(t, ts.URL+"/leaderboard?limit=5")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []storage.LeaderboardEntry
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].PlayerName)
	assert.Equal(t, 1, entries[0].Wins)

	_, body = get(t, ts.URL+"/leaderboard?player=Alice")
	assert.JSONEq(t, `{"rank":0,"player_name":"Alice","wins":1}`, body)

	_, body = get(t, ts.URL+"/matches")
	var matches []storage.MatchResult
	require.NoError(t, json.Unmarshal([]byte(body), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "ABCD", matches[0].RoomCode)

	// 创建房间后快照写入 Redis
	c := dial(t, ts, nil)
	send(t, c, `{"type":"CREATE_ROOM"}`)
	code, _ := readUntil(t, c, "ROOM_CREATED")["roomCode"].(string)
	assert.Eventually(t, func() bool { return mr.Exists("room:" + code) }, 2*time.Second, 10*time.Millisecond)
}

func TestClearStaleRooms(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("room:OLD1", `{"code":"OLD1","phase":"SET_TRAP","players":[{"id":"a","name":"A","seat":"p1"}]}`))
	require.NoError(t, mr.Set("room:BAD1", "{not json"))

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := clearStaleRooms(context.Background(), storage.NewRedisStore(rdb))
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("room:OLD1"))
	assert.False(t, mr.Exists("room:BAD1"), "corrupted snapshots are removed too")
	assert.Zero(t, clearStaleRooms(context.Background(), storage.NewRedisStore(rdb)))
}

func TestServer_RedisUnavailable(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestJoinURLs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"http://localhost:3000"}, joinURLs(3000, nil))
	assert.Equal(t,
		[]string{"http://localhost:8080", "http://192.168.1.10:8080", "http://10.0.0.2:8080"},
		joinURLs(8080, []string{"192.168.1.10", "10.0.0.2"}))
}

func TestMessageLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msgType protocol.MessageType
		want    string
	}{
		{protocol.MsgSetTrap, "SET_TRAP"},
		{protocol.MsgPlayAgain, "PLAY_AGAIN"},
		{protocol.MsgReveal, "unknown"}, // 服务端消息类型
		{"JUNK_1", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, messageLabel(tt.msgType), "type %q", tt.msgType)
	}
}

func TestServer_MetricsLabelsBounded(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, testConfig(t))
	c := dial(t, ts, nil)

	for i := range 5 {
		send(t, c, fmt.Sprintf(`{"type":"JUNK_%d"}`, i))
	}
	send(t, c, `{"type":"JOIN_ROOM","roomCode":"0000"}`)
	readUntil(t, c, "ERROR")

	// 计数在处理完成后才记录，回复可能先到
	var body string
	assert.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		data, _ := io.ReadAll(resp.Body)
		body = string(data)
		return strings.Contains(body, `electric_chair_messages_received_total{type="JOIN_ROOM"} 1`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotContains(t, body, "JUNK_")
	assert.Contains(t, body, `electric_chair_messages_received_total{type="unknown"} 5`)
}
