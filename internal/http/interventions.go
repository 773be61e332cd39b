package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fme-tracker/internal/export"
	"fme-tracker/internal/service"
)

func interventionQuery(c *gin.Context) service.InterventionQuery {
	return service.InterventionQuery{
		Status:   c.Query("status"),
		Company:  c.Query("company"),
		SiteDown: c.Query("site_down"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
}

func (h *Handler) listInterventions(c *gin.Context) {
	interventions, err := h.interventionService.List(c.Request.Context(), interventionQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, interventions)
}

func (h *Handler) searchInterventions(c *gin.Context) {
	interventions, err := h.interventionService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, interventions)
}

func (h *Handler) createIntervention(c *gin.Context) {
	var req struct {
		FMEName      string `json:"fme_name"`
		CompanyName  string `json:"company_name"`
		PhoneNumber  string `json:"phone_number"`
		TNumber      string `json:"t_number"`
		SiteName     string `json:"site_name"`
		InitialState string `json:"initial_state"`
		Action       string `json:"action"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	intervention, err := h.interventionService.Create(c.Request.Context(), service.CreateInterventionInput{
		FMEName:      req.FMEName,
		CompanyName:  req.CompanyName,
		PhoneNumber:  req.PhoneNumber,
		TNumber:      req.TNumber,
		SiteName:     req.SiteName,
		InitialState: req.InitialState,
		Action:       req.Action,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Uint("intervention_id", intervention.ID).
		Str("ticket_number", intervention.TicketNumber).
		Str("t_number", intervention.TNumber).
		Msg("intervention opened")

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"id":            intervention.ID,
		"ticket_number": intervention.TicketNumber,
		"arrival_time":  intervention.ArrivalTime,
	})
}

func (h *Handler) closeIntervention(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("invalid intervention id"))
		return
	}

	var req struct {
		FinalState string  `json:"final_state"`
		Comment    *string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	departure, err := h.interventionService.Close(c.Request.Context(), id, req.FinalState, req.Comment)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().Uint("intervention_id", id).Str("final_state", req.FinalState).Msg("intervention closed")

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"departure_time": departure,
	})
}

func (h *Handler) deleteIntervention(c *gin.Context) {
	// an id that cannot exist has nothing to delete
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.interventionService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listActionSuggestions(c *gin.Context) {
	actions, err := h.interventionService.ActionSuggestions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// exportInterventions serves the filtered interventions as a CSV attachment.
func (h *Handler) exportInterventions(c *gin.Context) {
	interventions, err := h.interventionService.List(c.Request.Context(), interventionQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInterventions(&buf, interventions, h.interventionService.Location()); err != nil {
		h.handleError(c, err)
		return
	}

	filename := export.Filename(h.interventionService.Now().In(h.interventionService.Location()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
