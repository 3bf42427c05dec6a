// Package server exposes a live timeline over HTTP for an external render
// consumer: the browser preview polls frames and drives playback. Every
// request runs on the engine loop, so it is ordered with ticks like any
// other edit.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/engine"
	"github.com/ivlev/cardmotion/internal/renderer"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// Server routes HTTP requests onto a running engine.Loop.
type Server struct {
	loop   *engine.Loop
	player *engine.Player
	ed     *editor.Editor
	router *gin.Engine
}

// New builds the router. The caller runs loop.
func New(loop *engine.Loop, player *engine.Player) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		loop:   loop,
		player: player,
		ed:     editor.New(player.Timeline()),
		router: gin.New(),
	}

	r := s.router
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/api/frame", s.getFrame)
	r.GET("/api/playback", s.getPlayback)
	r.POST("/api/playback/play", s.control(func(p *engine.Player) { p.Play() }))
	r.POST("/api/playback/pause", s.control(func(p *engine.Player) { p.Pause() }))
	r.POST("/api/playback/stop", s.control(func(p *engine.Player) { p.Stop() }))
	r.POST("/api/playback/seek", s.seek)
	r.POST("/api/keyframes", s.addKeyframe)
	r.DELETE("/api/keyframes/:id", s.deleteKeyframe)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

type sampleJSON struct {
	Track      string              `json:"track"`
	Property   string              `json:"property"`
	PropertyID timeline.PropertyID `json:"property_id"`
	Value      timeline.Value      `json:"value"`
}

type frameJSON struct {
	Time   float64      `json:"time"`
	Values []sampleJSON `json:"values"`
}

type playbackJSON struct {
	State    timeline.PlaybackState `json:"state"`
	Time     float64                `json:"time"`
	Duration float64                `json:"duration"`
	Loop     bool                   `json:"loop"`
}

func toFrameJSON(fr renderer.Frame) frameJSON {
	out := frameJSON{Time: fr.Time, Values: make([]sampleJSON, len(fr.Values))}
	for i, s := range fr.Values {
		out.Values[i] = sampleJSON{Track: s.Track, Property: s.Property, PropertyID: s.PropertyID, Value: s.Value}
	}
	return out
}

// run executes fn on the loop goroutine, answering 503 when the loop is gone.
func (s *Server) run(c *gin.Context, fn func()) bool {
	if err := s.loop.Do(c.Request.Context(), fn); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) status() playbackJSON {
	tl := s.player.Timeline()
	return playbackJSON{State: tl.State, Time: tl.CurrentTime, Duration: tl.Duration, Loop: tl.Loop}
}

func (s *Server) getFrame(c *gin.Context) {
	var at *float64
	if q := c.Query("t"); q != "" {
		var t float64
		if _, err := fmt.Sscanf(q, "%g", &t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "t must be a number of seconds"})
			return
		}
		at = &t
	}

	var fr renderer.Frame
	if !s.run(c, func() {
		tl := s.player.Timeline()
		t := tl.CurrentTime
		if at != nil {
			t = tl.ClampTime(*at)
		}
		fr = renderer.Snapshot(tl, t)
	}) {
		return
	}
	c.JSON(http.StatusOK, toFrameJSON(fr))
}

func (s *Server) getPlayback(c *gin.Context) {
	var st playbackJSON
	if s.run(c, func() { st = s.status() }) {
		c.JSON(http.StatusOK, st)
	}
}

func (s *Server) control(fn func(*engine.Player)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var st playbackJSON
		if s.run(c, func() {
			fn(s.player)
			st = s.status()
		}) {
			system.Logger().Debug("playback control", "path", c.FullPath(), "state", st.State)
			c.JSON(http.StatusOK, st)
		}
	}
}

func (s *Server) seek(c *gin.Context) {
	var req struct {
		Time *float64 `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Time == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time is required"})
		return
	}
	var st playbackJSON
	if s.run(c, func() {
		s.player.Seek(*req.Time)
		st = s.status()
	}) {
		c.JSON(http.StatusOK, st)
	}
}

func (s *Server) addKeyframe(c *gin.Context) {
	var req struct {
		Property string          `json:"property"`
		Time     float64         `json:"time"`
		Value    json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := decodeValue(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		id       timeline.KeyframeID
		ok       bool
		missing  bool
		mismatch bool
	)
	if !s.run(c, func() {
		p, _, err := s.ed.Timeline().Property(timeline.PropertyID(req.Property))
		if err != nil {
			missing = true
			return
		}
		if !p.Fits(v) {
			mismatch = true
			return
		}
		id, ok = s.ed.Add(timeline.PropertyID(req.Property), req.Time, v)
	}) {
		return
	}

	switch {
	case missing:
		c.JSON(http.StatusNotFound, gin.H{"error": timeline.ErrPropertyNotFound.Error()})
	case mismatch:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("%s value does not fit the property", timeline.ValueKind(v))})
	case !ok:
		c.JSON(http.StatusConflict, gin.H{"error": "track is locked"})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func (s *Server) deleteKeyframe(c *gin.Context) {
	id := timeline.KeyframeID(c.Param("id"))
	var ok bool
	if s.run(c, func() { ok = s.ed.DeleteKeyframe(id) }) {
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "keyframe missing or track locked"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// decodeValue maps JSON onto the value union: number, array of numbers or
// string. A missing or null value is an error.
func decodeValue(raw json.RawMessage) (timeline.Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("value is required")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return timeline.Number(f), nil
	}
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err == nil && len(vec) > 0 {
		return timeline.Vector(vec), nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return timeline.Categorical(str), nil
	}
	return nil, fmt.Errorf("value must be a number, a list of numbers or a string")
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}
