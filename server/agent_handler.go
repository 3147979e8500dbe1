package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uslanozan/asset-smith/agent"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
	"github.com/uslanozan/asset-smith/tools"
)

type AgentHandler struct {
	agents   *agent.Factory
	registry *tools.Registry
	memory   agent.MemoryStore
	log      *logger.Logger
}

func NewAgentHandler(agents *agent.Factory, registry *tools.Registry, memory agent.MemoryStore, log *logger.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, registry: registry, memory: memory, log: log}
}

// POST /agent/query - her istekte yeni model istemcisi ve agent kurulur
func (h *AgentHandler) Query(c *gin.Context) {
	var req models.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	a, err := h.agents.New()
	if err != nil {
		h.fail(c, err)
		return
	}
	answer, err := a.Run(c.Request.Context(), req.SessionID, *req.Question)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AgentResponse{
		Answer:    answer,
		Sources:   []string{},
		SessionID: req.SessionID,
	})
}

// GET /agent/tools
func (h *AgentHandler) Tools(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Specs())
}

// GET /agent/sessions/:session_id
func (h *AgentHandler) Session(c *gin.Context) {
	sessionID := c.Param("session_id")
	msgs, err := h.memory.Load(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, models.SessionHistory{
		SessionID: sessionID,
		Messages:  msgs,
		FetchedAt: time.Now().UTC(),
	})
}

// DELETE /agent/sessions/:session_id
func (h *AgentHandler) ClearSession(c *gin.Context) {
	if err := h.memory.Clear(c.Request.Context(), c.Param("session_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Session cleared"})
}

func (h *AgentHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, err.Error())
}
