package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smilepat/csat-connectedu-company/internal/generate"
	"github.com/smilepat/csat-connectedu-company/internal/store"
	"github.com/smilepat/csat-connectedu-company/internal/validate"
)

type generateRequest struct {
	Passage    string `json:"passage"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
	Interest   string `json:"interest"`
}

func (s *Server) generatePinned(c *gin.Context) {
	s.generateItem(c, c.Param("itemType"))
}

func (s *Server) generateRouted(c *gin.Context) {
	s.generateItem(c, "")
}

func (s *Server) generateItem(c *gin.Context, itemType string) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := generate.Request{
		ItemType:   itemType,
		Difficulty: body.Difficulty,
		Topic:      body.Topic,
		Passage:    body.Passage,
		Interest:   body.Interest,
		TraceID:    requestID(c),
	}

	if streaming(c) {
		s.streamGenerate(c, req)
		return
	}

	res := s.orchestrator.Generate(c.Request.Context(), req)
	c.JSON(statusFor(res), res)
}

// streamGenerate emits NDJSON: one preamble, heartbeats while generation
// runs, and one terminal carrying the result.
func (s *Server) streamGenerate(c *gin.Context, req generate.Request) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "application/x-ndjson")
	header.Set("Cache-Control", "no-cache")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	// The request context cancels the pipeline when the client disconnects.
	ctx := c.Request.Context()
	emitter := generate.NewEmitter(s.heartbeat)
	events := emitter.Run(ctx, req.TraceID, func(ctx context.Context) generate.Result {
		return s.orchestrator.Generate(ctx, req)
	})

	enc := json.NewEncoder(c.Writer)
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			return
		}
		flusher.Flush()
	}
}

type routeRequest struct {
	Passage string `json:"passage"`
	TopK    int    `json:"top_k"`
}

func (s *Server) route(c *gin.Context) {
	if s.router == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "routing not configured"})
		return
	}

	var body routeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Passage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passage required"})
		return
	}

	res := s.router.Route(c.Request.Context(), body.Passage, body.TopK)
	c.JSON(http.StatusOK, res)
}

type createItemRequest struct {
	ItemType   string          `json:"item_type"`
	Difficulty string          `json:"difficulty"`
	Provider   string          `json:"provider"`
	TraceID    string          `json:"trace_id"`
	Payload    json.RawMessage `json:"payload"`
}

func (s *Server) createItem(c *gin.Context) {
	if s.items == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	var body createItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload required"})
		return
	}

	sp, ok := s.registry.Resolve(body.ItemType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item type"})
		return
	}

	// Stored items must pass the same schema as generated ones.
	if _, err := validate.Item(string(body.Payload), sp); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	item := &store.Item{
		ID:         uuid.NewString(),
		ItemType:   string(sp.Code),
		Difficulty: body.Difficulty,
		Provider:   body.Provider,
		TraceID:    body.TraceID,
		Payload:    body.Payload,
	}
	if err := s.items.Save(c.Request.Context(), item); err != nil {
		s.logger.Error("save item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (s *Server) getItem(c *gin.Context) {
	if s.items == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	item, err := s.items.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		s.logger.Error("get item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) listItems(c *gin.Context) {
	if s.items == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	opts := store.ListOpts{ItemType: c.Query("type")}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		opts.Limit = n
	}

	items, err := s.items.List(c.Request.Context(), opts)
	if err != nil {
		s.logger.Error("list items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	if items == nil {
		items = []*store.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func streaming(c *gin.Context) bool {
	v := c.Query("stream")
	return v == "1" || v == "true"
}

// statusFor maps a generation outcome to an HTTP status.
func statusFor(res generate.Result) int {
	if res.OK {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case generate.ErrKindBadRequest:
		return http.StatusBadRequest
	case generate.ErrKindNoSpec:
		return http.StatusUnprocessableEntity
	case generate.ErrKindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
