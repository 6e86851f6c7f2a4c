// Package api exposes a thin gin HTTP facade over MatchOrchestrator and
// ReverseLookup, adapted from api/handlers.go's handler-registration and
// JSON-request-struct style.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trepgo/opentrep/orchestrator"
	"github.com/trepgo/opentrep/reverselookup"
)

// requestIDHeader is the header a request's correlation id is echoed
// under, for clients that want to tie a response back to server logs.
const requestIDHeader = "X-Request-ID"

// requestID stamps every request with a correlation id, the HTTP-facing
// analogue of the teacher's worker.go generating a searchID
// (uuid.New().String()) to tie a flight-search job's logs together.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"max_results,omitempty" binding:"min=0"`
}

// SearchResponse is the body of a successful /search response.
type SearchResponse struct {
	Locations      []LocationView `json:"locations"`
	UnmatchedWords []string       `json:"unmatched_words,omitempty"`
}

// LocationView is the JSON projection of one matched location.Location.
type LocationView struct {
	IATACode          string  `json:"iata_code"`
	CommonName        string  `json:"common_name"`
	CountryCode       string  `json:"country_code"`
	MatchingPercent   float64 `json:"matching_percentage"`
	CorrectedKeywords string  `json:"corrected_keywords"`
}

// Server wires the gin engine to an Orchestrator and an (optional)
// reverse-lookup Store.
type Server struct {
	engine       *gin.Engine
	orchestrator *orchestrator.Orchestrator
	store        reverselookup.Store
}

// NewServer builds the gin engine and registers routes. store may be nil
// if no SQL backend is configured; reverse-lookup routes then respond
// 503.
func NewServer(o *orchestrator.Orchestrator, store reverselookup.Store) *Server {
	s := &Server{engine: gin.New(), orchestrator: o, store: store}
	s.engine.Use(gin.Recovery(), requestID())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/search", s.handleSearch)
	s.engine.GET("/locations/iata/:code", s.handleByIATA)
}

// Run starts the HTTP server on addr (blocking).
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.orchestrator.Search(c.Request.Context(), req.Query, orchestrator.Options{MaxResults: req.MaxResults})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := SearchResponse{UnmatchedWords: result.UnmatchedWords}
	for _, loc := range result.Locations {
		resp.Locations = append(resp.Locations, LocationView{
			IATACode:          loc.Key.IATACode,
			CommonName:        loc.CommonName,
			CountryCode:       loc.CountryCode,
			MatchingPercent:   loc.MatchingPercentage,
			CorrectedKeywords: loc.CorrectedKeywords,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleByIATA(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reverse lookup store not configured"})
		return
	}

	code := c.Param("code")
	list, err := s.store.ByIATA(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": list})
}
