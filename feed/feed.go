// Package feed 订阅场所活动流并驱动执行触发器。
// 引擎没有后台排程线程,订单全靠这里送进来的活动事件推进。
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"twap-engine-go/infrastructure/logger"
)

// Event 活动流中的一条成交通知。
type Event struct {
	Actor  string `json:"actor"`
	Market string `json:"market"`
	Ts     int64  `json:"ts"`
}

var ErrBadEvent = errors.New("malformed activity event")

// ParseEvent 解析单条活动消息。actor 与 market 缺一不可。
func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	if ev.Actor == "" || ev.Market == "" {
		return Event{}, fmt.Errorf("%w: missing actor or market", ErrBadEvent)
	}
	return ev, nil
}

// Trigger 活动事件的消费方。
type Trigger interface {
	OnActivity(ctx context.Context, actor, key string) error
}

// Client 持有一条到活动流的 WebSocket 连接,断线指数退避重连。
type Client struct {
	URL     string
	Dialer  *websocket.Dialer
	trigger Trigger
	log     *logger.Logger

	// 重连退避上限
	MaxBackoff time.Duration
}

func New(url string, trigger Trigger, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		URL:        url,
		Dialer:     websocket.DefaultDialer,
		trigger:    trigger,
		log:        log,
		MaxBackoff: 30 * time.Second,
	}
}

// Run 连接并消费活动流,直到 ctx 取消。单条事件的触发失败只记日志,
// 不中断消费(触发是幂等的,下一条事件会再补)。
func (c *Client) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := c.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.LogFeed("disconnect", zap.String("url", c.URL), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > c.MaxBackoff {
			backoff = c.MaxBackoff
		}
	}
}

func (c *Client) consume(ctx context.Context) error {
	conn, _, err := c.Dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}
	defer conn.Close()
	c.log.LogFeed("connect", zap.String("url", c.URL))

	// ctx 取消时关闭连接解除 ReadMessage 阻塞
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read feed: %w", err)
		}
		ev, err := ParseEvent(raw)
		if err != nil {
			c.log.LogFeed("bad_event", zap.ByteString("raw", raw), zap.Error(err))
			continue
		}
		if err := c.trigger.OnActivity(ctx, ev.Actor, ev.Market); err != nil {
			c.log.LogFeed("trigger_error", zap.String("market", ev.Market), zap.Error(err))
		}
	}
}
