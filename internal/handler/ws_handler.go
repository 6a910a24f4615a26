package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/events"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	ws "github.com/stemsi/academia-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams lecture events over WebSocket.
type WSHandler struct {
	bus            events.Bus
	lectureService *service.LectureService
	log            zerolog.Logger
	upgrader       websocket.Upgrader

	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(bus events.Bus, lectureService *service.LectureService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		bus:            bus,
		lectureService: lectureService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
		pongWait:       ws.ReadTimeout,
		pingPeriod:     ws.PingPeriod,
	}
}

// LectureStream godoc
// WS /ws/v1/education/lectures/:id/stream
// Pushes every change of the lecture until the client disconnects.
func (h *WSHandler) LectureStream(c *gin.Context) {
	lectureID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.lectureService.GetLecture(c.Request.Context(), lectureID); err != nil {
		response.FailErr(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int64("lecture_id", lectureID).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.bus.Subscribe(ctx, lectureID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		_ = ws.WriteError(conn, "subscription failed")
		return
	}

	if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, LectureID: lectureID}); err != nil {
		return
	}
	wsLog.Info().Msg("Stream client connected")

	ws.KeepAlive(conn, h.pongWait)
	ping := time.NewTicker(h.pingPeriod)
	defer ping.Stop()

	// gorilla allows one concurrent writer: the reader hands replies to this loop.
	replies := make(chan interface{}, 4)
	go h.readLoop(conn, cancel, replies, wsLog)

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Stream client disconnected")
			return
		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				wsLog.Debug().Err(err).Msg("Ping failed")
				return
			}
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case e, ok := <-sub:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.LectureEventResponse{
				Event:     ws.Event(e.Type),
				LectureID: e.LectureID,
				Data:      e.Data,
				At:        e.At,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc, replies chan<- interface{}, wsLog zerolog.Logger) {
	defer cancel()

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg, h.pongWait); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		default:
			wsLog.Warn().Msg("Reply dropped, client is not reading")
		}
	}
}
