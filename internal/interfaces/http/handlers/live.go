package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
	"github.com/your-org/kbeauty-storefront/internal/domain/favorites"
	"github.com/your-org/kbeauty-storefront/internal/domain/notification"
	"github.com/your-org/kbeauty-storefront/internal/domain/search"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	outboxSize = 32
)

// Live message types
const (
	MessageSearchInput  = "search_input"
	MessageSearchSubmit = "search_submit"

	MessageCart          = "cart"
	MessageFavorites     = "favorites"
	MessageSession       = "session"
	MessageSuggestions   = "suggestions"
	MessageNavigate      = "navigate"
	MessageNotifications = "notifications"
	MessageError         = "error"
)

// Inbound is a message sent by the renderer
type Inbound struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

// Outbound is a message pushed to the renderer
type Outbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LiveHandler streams store events, suggestion panels and order
// notifications over a websocket
type LiveHandler struct {
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewLiveHandler creates a live handler accepting the given browser origins
func NewLiveHandler(allowedOrigins []string, logger logrus.FieldLogger) *LiveHandler {
	return &LiveHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// Connect handles GET /ws
func (h *LiveHandler) Connect(c *gin.Context) {
	v := middleware.GetVisitor(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	release := v.Hold()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := h.logger.WithField("visitor_id", v.ID)
	outbox := make(chan Outbound, outboxSize)
	send := func(m Outbound) {
		select {
		case outbox <- m:
		case <-ctx.Done():
		default:
			log.WithField("type", m.Type).Warn("Live outbox full, dropping message")
		}
	}

	unsubs := []func(){
		v.Cart.Subscribe(func(e cart.Event) { send(Outbound{Type: MessageCart, Data: e}) }),
		v.Favorites.Subscribe(func(e favorites.Event) { send(Outbound{Type: MessageFavorites, Data: e}) }),
		v.Session.Subscribe(func(e session.Event) { send(Outbound{Type: MessageSession, Data: e}) }),
		v.Search.Subscribe(func(p search.Panel) { send(Outbound{Type: MessageSuggestions, Data: p}) }),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	go v.Notifications.Run(ctx, v.Session.Credential, func(changes []notification.Change) {
		send(Outbound{Type: MessageNotifications, Data: changes})
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(ctx, conn, outbox)
		cancel()
		conn.Close()
	}()

	h.readLoop(ctx, conn, v.Search, send)
	cancel()
	<-writerDone
	log.Debug("Live connection closed")
}

func (h *LiveHandler) readLoop(ctx context.Context, conn *websocket.Conn, svc *search.Service, send func(Outbound)) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("Live connection read failed")
			}
			return
		}

		switch msg.Type {
		case MessageSearchInput:
			svc.Type(msg.Query)
		case MessageSearchSubmit:
			nav, err := svc.Submit(ctx, msg.Query)
			if err != nil {
				send(Outbound{Type: MessageError, Data: err.Error()})
				continue
			}
			send(Outbound{Type: MessageNavigate, Data: nav})
		default:
			send(Outbound{Type: MessageError, Data: "unknown message type: " + msg.Type})
		}
	}
}

func (h *LiveHandler) writeLoop(ctx context.Context, conn *websocket.Conn, outbox <-chan Outbound) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case m := <-outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
