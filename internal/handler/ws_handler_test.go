package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/events"
	"github.com/stemsi/academia-backend/internal/metrics"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/seed"
	"github.com/stemsi/academia-backend/internal/service"
)

func TestLectureStreamKeepsListeningClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := zerolog.Nop()

	repos := repository.NewMemorySet()
	fixtures, err := seed.Load("")
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	if err := seed.Apply(ctx, repos, fixtures, log); err != nil {
		t.Fatalf("apply fixtures: %v", err)
	}

	bus := events.NewMemoryBus(log)
	defer bus.Close()
	lectures := service.NewLectureService(repos, bus, metrics.New(), false, log)

	h := NewWSHandler(bus, lectures, log, nil)
	h.pongWait = 150 * time.Millisecond
	h.pingPeriod = 50 * time.Millisecond

	r := gin.New()
	r.GET("/ws/lectures/:id/stream", h.LectureStream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/lectures/1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil || msg["event"] != "subscribed" {
		t.Fatalf("expected subscribed, got %v, %v", msg, err)
	}

	// The client never writes; its reads answer the server's pings. The
	// enrollment lands well past the server's silence limit.
	go func() {
		time.Sleep(4 * h.pongWait)
		_, _ = lectures.ApplyAttendedSubject(context.Background(), 1, 3)
	}()

	msg = nil
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("stream closed on a listening client: %v", err)
	}
	if msg["event"] != string(events.AttendedSubjectApplied) {
		t.Fatalf("expected applied event, got %v", msg)
	}
}
