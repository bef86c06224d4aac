package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/auth"
)

// NotifyChannel 是导出进度通知使用的 Redis 频道。
const NotifyChannel = "notify:export"

// WsHandler 负责处理 WebSocket 鉴权与消息转发。
// 单用户场景下只有一个通知频道；门禁启用时首条消息必须携带会话令牌。
type WsHandler struct {
	redisClient    *redis.Client
	gate           *auth.Gate
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(redisClient *redis.Client, gate *auth.Gate, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		redisClient:    redisClient,
		gate:           gate,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleConnection 负责升级连接并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With(slog.String("client_ip", c.ClientIP()))

	readyCh := make(chan struct{}, 1)
	errCh := make(chan error, 1)

	go h.readLoop(ctx, conn, readyCh, errCh, cancel, log)

	select {
	case <-ctx.Done():
		return
	case err := <-errCh:
		if err != nil {
			log.Warn("websocket authentication failed", slog.Any("error", err))
		}
		return
	case <-readyCh:
	}

	go h.subscribeLoop(ctx, conn, errCh, cancel, log)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Info("websocket connection closed", slog.Any("error", err))
		} else {
			log.Info("websocket connection closed")
		}
	}
}

func (h *WsHandler) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	readyCh chan<- struct{},
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	ready := false

	// 门禁未启用时不需要握手消息，直接就绪。
	if !h.gate.Enabled() {
		ready = true
		readyCh <- struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			writeClose(conn, websocket.CloseAbnormalClosure, "read error")
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}

		if !ready {
			var authMsg wsAuthMessage
			if err := json.Unmarshal(message, &authMsg); err != nil {
				writeClose(conn, websocket.ClosePolicyViolation, "invalid auth payload")
				errCh <- fmt.Errorf("decode auth payload: %w", err)
				cancel()
				return
			}
			if authMsg.Type != "auth" || authMsg.Token == "" {
				writeClose(conn, websocket.ClosePolicyViolation, "auth required")
				errCh <- fmt.Errorf("invalid auth message")
				cancel()
				return
			}

			if err := h.gate.ValidateToken(authMsg.Token); err != nil {
				writeClose(conn, websocket.ClosePolicyViolation, "unauthorized")
				errCh <- fmt.Errorf("validate token: %w", err)
				cancel()
				return
			}

			ready = true
			readyCh <- struct{}{}
			log.Info("websocket authenticated")
			continue
		}

		// 目前无需处理额外消息，保持循环以检测客户端断开。
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) subscribeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	pubsub := h.redisClient.Subscribe(ctx, NotifyChannel)
	defer pubsub.Close()

	log.Info("subscribed to redis channel", slog.String("channel", NotifyChannel))

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				errCh <- fmt.Errorf("pubsub channel closed")
				cancel()
				return
			}

			log.Info("forwarding message to client", slog.String("channel", NotifyChannel))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				errCh <- fmt.Errorf("write message: %w", err)
				cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				errCh <- fmt.Errorf("write ping: %w", err)
				cancel()
				return
			}
		}
	}
}
