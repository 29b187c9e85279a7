package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestParseEvent(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Event
		wantErr bool
	}{
		{
			name: "完整事件",
			raw:  `{"actor":"carol","market":"ETH-USDC","ts":1767225600}`,
			want: Event{Actor: "carol", Market: "ETH-USDC", Ts: 1767225600},
		},
		{
			name:    "缺 actor",
			raw:     `{"market":"ETH-USDC"}`,
			wantErr: true,
		},
		{
			name:    "缺 market",
			raw:     `{"actor":"carol"}`,
			wantErr: true,
		},
		{
			name:    "非法 JSON",
			raw:     `{actor:}`,
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tc.raw))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadEvent)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, ev)
		})
	}
}

type recordingTrigger struct {
	mu    sync.Mutex
	calls []string
	ch    chan struct{}
}

func (r *recordingTrigger) OnActivity(ctx context.Context, actor, key string) error {
	r.mu.Lock()
	r.calls = append(r.calls, actor+"@"+key)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func TestClientConsumesStream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		msgs := []string{
			`{"actor":"carol","market":"ETH-USDC","ts":1}`,
			`not json`, // 坏消息只跳过,不断流
			`{"actor":"dave","market":"BTC-USDC","ts":2}`,
		}
		for _, m := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// 挂住连接,等客户端因 ctx 取消退出
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	trig := &recordingTrigger{ch: make(chan struct{}, 8)}
	c := New("ws"+strings.TrimPrefix(srv.URL, "http"), trig, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-trig.ch:
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	cancel()

	trig.mu.Lock()
	defer trig.mu.Unlock()
	assert.Equal(t, []string{"carol@ETH-USDC", "dave@BTC-USDC"}, trig.calls)
}

func TestClientDialFailureReturnsOnCancel(t *testing.T) {
	trig := &recordingTrigger{ch: make(chan struct{}, 1)}
	c := New("ws://127.0.0.1:1/feed", trig, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := c.Run(ctx)
	assert.Error(t, err)
}
