package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestLog(t *testing.T) {
	buf := captureLog(t)

	Log(context.Background(), Event{
		Type:        EventBalanceAdjust,
		AgentID:     7,
		GroupPrefix: "tenantA",
		Details: map[string]interface{}{
			"user_id": int64(11),
			"amount":  12.5,
			"type":    "add",
			"ok":      true,
			"ids":     []int{1, 2},
		},
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "security", entry["audit"])
	assert.Equal(t, "balance_adjust", entry["event_type"])
	assert.Equal(t, float64(7), entry["agent_id"])
	assert.Equal(t, "tenantA", entry["group_prefix"])
	assert.Equal(t, float64(11), entry["user_id"])
	assert.Equal(t, 12.5, entry["amount"])
	assert.Equal(t, "add", entry["type"])
	assert.Equal(t, true, entry["ok"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, entry["ids"])
	assert.NotContains(t, entry, "agent_name")
	assert.NotContains(t, entry, "ip")
}

func TestLogFromRequest(t *testing.T) {
	buf := captureLog(t)

	req := httptest.NewRequest("POST", "/login/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	LogFromRequest(req, Event{Type: EventLoginFailure, AgentName: "agentA"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "203.0.113.9", entry["ip"])
	assert.Equal(t, "test-agent", entry["user_agent"])
	assert.Equal(t, "agentA", entry["agent_name"])
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": " 198.51.100.1 , 10.0.0.2"}, "10.0.0.3:1234", "198.51.100.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.3:1234", "198.51.100.2"},
		{"remote addr", nil, "10.0.0.3:1234", "10.0.0.3:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
