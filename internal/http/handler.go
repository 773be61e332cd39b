package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fme-tracker/internal/service"
)

type Handler struct {
	companyService      *service.CompanyService
	technicianService   *service.TechnicianService
	siteService         *service.SiteService
	interventionService *service.InterventionService
	statsService        *service.StatsService
	log                 zerolog.Logger
}

func NewHandler(
	companyService *service.CompanyService,
	technicianService *service.TechnicianService,
	siteService *service.SiteService,
	interventionService *service.InterventionService,
	statsService *service.StatsService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		companyService:      companyService,
		technicianService:   technicianService,
		siteService:         siteService,
		interventionService: interventionService,
		statsService:        statsService,
		log:                 log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")

	{
		api.GET("/companies", h.listCompanies)
		api.POST("/companies", h.createCompany)
	}

	// FME = field technician
	{
		api.GET("/fme", h.listTechnicians)
		api.GET("/fme/search", h.searchTechnicians)
		api.POST("/fme", h.upsertTechnician)
	}

	{
		api.GET("/sites", h.listSites)
		api.GET("/sites/:t_number", h.getSite)
		api.POST("/sites", h.createSite)
	}

	{
		api.GET("/interventions", h.listInterventions)
		api.GET("/interventions/search", h.searchInterventions)
		api.POST("/interventions", h.createIntervention)
		api.PUT("/interventions/:id/close", h.closeIntervention)
		api.DELETE("/interventions/:id", h.deleteIntervention)
	}

	api.GET("/suggestions/actions", h.listActionSuggestions)
	api.GET("/stats", h.getStats)
	api.GET("/export/excel", h.exportInterventions)
}

func (h *Handler) listCompanies(c *gin.Context) {
	companies, err := h.companyService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

func (h *Handler) createCompany(c *gin.Context) {
	var req struct {
		CompanyName string `json:"company_name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req.CompanyName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           company.ID,
		"company_name": company.CompanyName,
	})
}

func (h *Handler) listTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *Handler) searchTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func (h *Handler) upsertTechnician(c *gin.Context) {
	var req struct {
		FMEName     string `json:"fme_name"`
		CompanyName string `json:"company_name"`
		PhoneNumber string `json:"phone_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	technician, err := h.technicianService.Upsert(c.Request.Context(), service.UpsertTechnicianInput{
		FMEName:     req.FMEName,
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           technician.ID,
		"fme_name":     technician.FMEName,
		"company_name": technician.CompanyName,
		"phone_number": technician.PhoneNumber,
	})
}

func (h *Handler) listSites(c *gin.Context) {
	sites, err := h.siteService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sites)
}

func (h *Handler) getSite(c *gin.Context) {
	tNumber := strings.TrimSpace(c.Param("t_number"))
	if tNumber == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid t_number"))
		return
	}

	site, err := h.siteService.Get(c.Request.Context(), tNumber)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, site)
}

func (h *Handler) createSite(c *gin.Context) {
	var req struct {
		TNumber  string `json:"t_number"`
		SiteName string `json:"site_name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	site, err := h.siteService.Create(c.Request.Context(), req.TNumber, req.SiteName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"t_number":  site.TNumber,
		"site_name": site.SiteName,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		// duplicates on entities without upsert semantics are client errors
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
