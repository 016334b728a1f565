package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server wires a runner and a hub into a gin engine.
type Server struct {
	engine   *gin.Engine
	hub      *Hub
	runner   *Runner
	registry *models.Registry
}

// New builds a server around a paused model. Call Run to start both
// the tick loop and the listener.
func New(reg *models.Registry, modelName string, p params.Set, seed int64, fps int) (*Server, error) {
	hub := NewHub()
	runner, err := NewRunner(reg, modelName, p, seed, fps, hub)
	if err != nil {
		hub.Close()
		return nil, err
	}
	s := &Server{
		engine:   gin.Default(),
		hub:      hub,
		runner:   runner,
		registry: reg,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.GET("/models", s.handleModels)
		api.GET("/frame", s.handleFrame)
		api.GET("/params", s.handleGetParams)
		api.POST("/params", s.handleSetParams)
		api.POST("/control", s.handleControl)
	}
}

// Run starts the tick loop and blocks serving HTTP.
func (s *Server) Run(addr string) error {
	s.runner.Start()
	defer s.runner.Stop()
	defer s.hub.Close()
	return s.engine.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	s.hub.Add(conn)

	go func() {
		defer s.hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.registry.Choice(s.runner.ModelName())})
}

func (s *Server) handleFrame(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Frame())
}

func (s *Server) handleGetParams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"params": s.runner.Params()})
}

func (s *Server) handleSetParams(c *gin.Context) {
	var values map[string]float64
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameter payload"})
		return
	}
	if err := s.runner.ApplyParams(values); err != nil {
		if errors.Is(err, params.ErrUnknownParam) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.hub.Broadcast(EventParams, s.runner.Params())
	c.JSON(http.StatusOK, gin.H{"params": s.runner.Params()})
}

type controlRequest struct {
	Action string `json:"action" binding:"required"`
}

func (s *Server) handleControl(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing action"})
		return
	}
	switch req.Action {
	case "play":
		s.runner.Play()
	case "pause":
		s.runner.Pause()
	case "step":
		s.runner.StepOnce()
	case "reset":
		if err := s.runner.Reset(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + req.Action})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": req.Action})
}
