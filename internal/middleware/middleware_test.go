package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRequest struct {
	GroupID string `json:"groupId,omitempty"`
	Fail    bool   `json:"fail"`
}

func (r *pingRequest) GetGroupID() string { return r.GroupID }

type pingResponse struct {
	OK bool `json:"ok"`
}

type testCodec struct{}

func (testCodec) Name() string { return "json" }

func (testCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (testCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

const pingProcedure = "/test.v1.PingService/Ping"

func newPingServer(t *testing.T, interceptors ...connect.Interceptor) func(fail bool) error {
	t.Helper()
	call := newGroupPingServer(t, interceptors...)
	return func(fail bool) error { return call("", fail) }
}

func newGroupPingServer(t *testing.T, interceptors ...connect.Interceptor) func(groupID string, fail bool) error {
	t.Helper()

	handler := connect.NewUnaryHandler(pingProcedure,
		func(ctx context.Context, req *connect.Request[pingRequest]) (*connect.Response[pingResponse], error) {
			if req.Msg.Fail {
				return nil, connect.NewError(connect.CodeNotFound, errors.New("no such thing"))
			}
			return connect.NewResponse(&pingResponse{OK: true}), nil
		},
		connect.WithCodec(testCodec{}),
		connect.WithInterceptors(interceptors...),
	)
	mux := http.NewServeMux()
	mux.Handle(pingProcedure, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := connect.NewClient[pingRequest, pingResponse](
		http.DefaultClient, server.URL+pingProcedure, connect.WithCodec(testCodec{}))
	return func(groupID string, fail bool) error {
		_, err := client.CallUnary(context.Background(), connect.NewRequest(&pingRequest{GroupID: groupID, Fail: fail}))
		return err
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	call := newGroupPingServer(t, LoggingInterceptor())

	require.NoError(t, call("g1", false))
	out := buf.String()
	assert.Contains(t, out, "RPC ok")
	assert.Contains(t, out, pingProcedure)
	assert.Contains(t, out, "group_id=g1")

	buf.Reset()
	require.NoError(t, call("", false))
	assert.NotContains(t, buf.String(), "group_id")

	buf.Reset()
	err := call("g2", true)
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	out = buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=not_found")
	assert.Contains(t, out, "group_id=g2")
	assert.Contains(t, out, `error="no such thing"`)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, levelFor(connect.CodeInvalidArgument))
	assert.Equal(t, slog.LevelWarn, levelFor(connect.CodeUnauthenticated))
	assert.Equal(t, slog.LevelError, levelFor(connect.CodeInternal))
	assert.Equal(t, slog.LevelError, levelFor(connect.CodeUnknown))
}

func TestRPCMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRPCMetrics(reg)
	call := newPingServer(t, m.Interceptor())

	require.NoError(t, call(false))
	require.NoError(t, call(false))
	require.Error(t, call(true))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(pingProcedure, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(pingProcedure, "not_found")))

	expected := `
# HELP personas_rpc_requests_total Unary RPCs handled, by procedure and code.
# TYPE personas_rpc_requests_total counter
personas_rpc_requests_total{code="not_found",procedure="/test.v1.PingService/Ping"} 1
personas_rpc_requests_total{code="ok",procedure="/test.v1.PingService/Ping"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "personas_rpc_requests_total"))
}
