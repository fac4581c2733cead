package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lottogen/application"
	"lottogen/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TicketRequest is the body of POST /tickets
type TicketRequest struct {
	Count int     `json:"count" binding:"required,min=1,max=100"`
	TopK  *int    `json:"top_k" binding:"omitempty,min=1,max=90"`
	Seed  *uint64 `json:"seed"`
}

// TicketResponse describes a generated batch
type TicketResponse struct {
	RunID     uuid.UUID `json:"run_id"`
	Tickets   [][]int   `json:"tickets"`
	Requested int       `json:"requested"`
	Produced  int       `json:"produced"`
	Partial   bool      `json:"partial"`
	TopK      int       `json:"top_k"`
	DrawCount int       `json:"draw_count"`
}

// FrequencyResponse is the body of GET /frequencies
type FrequencyResponse struct {
	DrawCount   int                        `json:"draw_count"`
	FromYear    int                        `json:"from_year"`
	ToYear      int                        `json:"to_year"`
	LoadedAt    time.Time                  `json:"loaded_at"`
	Frequencies []entities.NumberFrequency `json:"frequencies"`
}

// RunResponse is the body of the run endpoints
type RunResponse struct {
	ID        uuid.UUID `json:"id"`
	FromYear  int       `json:"from_year"`
	ToYear    int       `json:"to_year"`
	DrawCount int       `json:"draw_count"`
	TopK      int       `json:"top_k"`
	Requested int       `json:"requested"`
	Seed      *uint64   `json:"seed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   [][]int   `json:"tickets,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if history := s.history.Current(); history != nil {
		resp["draws"] = len(history.Draws)
		resp["loaded_at"] = history.LoadedAt
	} else {
		resp["status"] = "loading"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFrequencies(c *gin.Context) {
	history := s.history.Current()
	if history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "draw history not loaded yet"})
		return
	}

	c.JSON(http.StatusOK, FrequencyResponse{
		DrawCount:   len(history.Draws),
		FromYear:    history.FromYear,
		ToYear:      history.ToYear,
		LoadedAt:    history.LoadedAt,
		Frequencies: history.Frequency.Rows(),
	})
}

func (s *Server) handleGenerateTickets(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history := s.history.Current()
	if history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "draw history not loaded yet"})
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	run, err := s.generator.Generate(c.Request.Context(), history, application.GenerationRequest{
		FromYear: history.FromYear,
		ToYear:   history.ToYear,
		Count:    req.Count,
		TopK:     topK,
		Seed:     req.Seed,
	})
	if errors.Is(err, application.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.WithError(err).Error("Ticket generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ticket generation failed"})
		return
	}

	c.JSON(http.StatusOK, TicketResponse{
		RunID:     run.ID,
		Tickets:   ticketSlices(run.Tickets),
		Requested: run.Requested,
		Produced:  run.Produced(),
		Partial:   run.IsPartial(),
		TopK:      run.TopK,
		DrawCount: run.DrawCount,
	})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run history is not stored"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := s.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("run_id", id).Error("Failed to load run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, toRunResponse(run))
}

func (s *Server) handleRecentRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run history is not stored"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	runs, err := s.runs.GetRecent(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	out := make([]RunResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func toRunResponse(run *entities.GenerationRun) RunResponse {
	return RunResponse{
		ID:        run.ID,
		FromYear:  run.FromYear,
		ToYear:    run.ToYear,
		DrawCount: run.DrawCount,
		TopK:      run.TopK,
		Requested: run.Requested,
		Seed:      run.Seed,
		CreatedAt: run.CreatedAt,
		Tickets:   ticketSlices(run.Tickets),
	}
}

func ticketSlices(tickets []entities.Ticket) [][]int {
	out := make([][]int, len(tickets))
	for i, t := range tickets {
		out[i] = t.Slice()
	}
	return out
}
