package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/notify"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reportService  service.ReportService
	routeService   service.RouteService
	contactService service.ContactService
	sosService     service.SOSService
	logger         *logrus.Logger
	validate       *validator.Validate
	cfg            *config.Config
}

func NewHandler(
	reportService service.ReportService,
	routeService service.RouteService,
	contactService service.ContactService,
	sosService service.SOSService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		reportService:  reportService,
		routeService:   routeService,
		contactService: contactService,
		sosService:     sosService,
		logger:         logger,
		validate:       validator.New(),
		cfg:            cfg,
	}
}

// serviceError переводит доменные ошибки в HTTP-статусы.
// Неизвестные ошибки сервиса наружу не протекают.
func (h *Handler) serviceError(c *gin.Context, log *logrus.Entry, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidRoute):
		log.WithError(err).Warn("Rejected invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrContactNotFound):
		log.WithError(err).Warn("Requested entity not found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotSessionOwner):
		log.WithError(err).Warn("Rejected request from non-owner")
		c.JSON(http.StatusForbidden, gin.H{"error": "caller is not the session owner"})
	case errors.Is(err, models.ErrSessionClosed):
		log.WithError(err).Warn("Rejected action on closed session")
		c.JSON(http.StatusConflict, gin.H{"error": "session already closed"})
	case errors.Is(err, models.ErrNoDeliveryChannel):
		log.WithError(err).Warn("No delivery channel for any contact")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no delivery channel available for any contact"})
	default:
		log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Submit a risk report
// @Description Submit an incident or reassurance observation for a geographic cell. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param report body CreateReportRequest true "Risk report"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToReportModel(input)
	if err := h.reportService.IngestReport(c.Request.Context(), model); err != nil {
		h.serviceError(c, log, err, "Failed to ingest report in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(model))
}

// @Summary Get cell safety aggregate
// @Description Get the current safety aggregate of a geographic cell by its S2 token. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Cell token"
// @Success 200 {object} CellResponse
// @Failure 400 {object} map[string]string "Invalid cell token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cells/{id} [get]
func (h *Handler) getCell(c *gin.Context) {
	token := models.CellToken(c.Param("id"))
	log := h.logger.WithField("method", "getCell").WithField("cell", token)

	cell, err := h.reportService.GetCell(c.Request.Context(), token)
	if err != nil {
		h.serviceError(c, log, err, "Failed to get cell from service")
		return
	}
	c.JSON(http.StatusOK, ModelToCellResponse(cell))
}

// @Summary Check location safety
// @Description Check the safety aggregate of the cell containing a coordinate. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param location body LocationCheckRequest true "Location check request"
// @Success 200 {object} LocationCheckResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/check [post]
func (h *Handler) checkLocation(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cell, dangerous, err := h.reportService.CheckLocation(c.Request.Context(), input.Latitude, input.Longitude)
	if err != nil {
		h.serviceError(c, log, err, "Failed to check location in service")
		return
	}

	c.JSON(http.StatusOK, LocationCheckResponse{
		Cell:      *ModelToCellResponse(cell),
		Dangerous: dangerous,
	})
}

// @Summary Rank route candidates
// @Description Score route candidates against the current risk snapshot and return them safest first. Requires API key.
// @Tags Routes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param routes body RankRoutesRequest true "Route candidates"
// @Success 200 {array} ScoredRouteResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /routes/rank [post]
func (h *Handler) rankRoutes(c *gin.Context) {
	var input RankRoutesRequest
	log := h.logger.WithField("method", "rankRoutes")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := make([]models.RouteCandidate, len(input.Candidates))
	for i, dto := range input.Candidates {
		candidates[i] = DTOToCandidateModel(dto)
	}

	ranked, err := h.routeService.RankRoutes(c.Request.Context(), candidates)
	if err != nil {
		h.serviceError(c, log, err, "Failed to rank routes in service")
		return
	}

	c.JSON(http.StatusOK, ModelsToScoredRouteResponses(ranked))
}

// @Summary Trigger an SOS session
// @Description Start an emergency session for a user. A second trigger while one is active reinforces the existing session. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sos body TriggerSOSRequest true "SOS trigger request"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "No delivery channel available"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	var input TriggerSOSRequest
	log := h.logger.WithField("method", "triggerSOS")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fix := models.LocationFix{
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		AccuracyMeters: input.AccuracyMeters,
	}
	if input.Timestamp != nil {
		fix.Timestamp = *input.Timestamp
	}

	session, err := h.sosService.Trigger(c.Request.Context(), models.UserID(input.UserID), fix)
	if err != nil {
		h.serviceError(c, log, err, "Failed to trigger SOS in service")
		return
	}

	c.JSON(http.StatusCreated, ModelToSessionResponse(session))
}

func (h *Handler) finishSOS(c *gin.Context, resolve bool) {
	methodName := "cancelSOS"
	if resolve {
		methodName = "resolveSOS"
	}
	log := h.logger.WithField("method", methodName)

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	log = log.WithField("session_id", sessionID)

	var input SessionActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var session *models.SOSSession
	if resolve {
		session, err = h.sosService.Resolve(c.Request.Context(), sessionID, models.UserID(input.UserID))
	} else {
		session, err = h.sosService.Cancel(c.Request.Context(), sessionID, models.UserID(input.UserID))
	}
	if err != nil {
		h.serviceError(c, log, err, "Failed to finish SOS session in service")
		return
	}

	c.JSON(http.StatusOK, ModelToSessionResponse(session))
}

// @Summary Resolve an SOS session
// @Description Mark the user as safe. Pending deliveries complete, no further escalation happens. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param action body SessionActionRequest true "Session action request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid session ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the session owner"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/{id}/resolve [post]
func (h *Handler) resolveSOS(c *gin.Context) {
	h.finishSOS(c, true)
}

// @Summary Cancel an SOS session
// @Description Cancel an emergency session. Delivery attempts stay recorded for audit. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param action body SessionActionRequest true "Session action request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid session ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not the session owner"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/{id}/cancel [post]
func (h *Handler) cancelSOS(c *gin.Context) {
	h.finishSOS(c, false)
}

// @Summary Append a location fix
// @Description Append a location fix to the active session's trail. Fixes older than the last recorded one are discarded. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param fix body LocationFixRequest true "Location fix"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid session ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/{id}/location [post]
func (h *Handler) appendLocation(c *gin.Context) {
	log := h.logger.WithField("method", "appendLocation")

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	log = log.WithField("session_id", sessionID)

	var input LocationFixRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fix := models.LocationFix{
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		AccuracyMeters: input.AccuracyMeters,
	}
	if input.Timestamp != nil {
		fix.Timestamp = *input.Timestamp
	}

	if err := h.sosService.AppendLocation(c.Request.Context(), sessionID, fix); err != nil {
		h.serviceError(c, log, err, "Failed to append location in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get an SOS session
// @Description Get a session's state and ordered delivery log. Requires API key.
// @Tags SOS
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/{id} [get]
func (h *Handler) getSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	log := h.logger.WithField("method", "getSession").WithField("session_id", sessionID)

	session, err := h.sosService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.serviceError(c, log, err, "Failed to get session from service")
		return
	}
	c.JSON(http.StatusOK, ModelToSessionResponse(session))
}

// @Summary Report a delivery outcome
// @Description Callback from the notification gateway with the outcome of one delivery attempt.
// @Tags SOS
// @Accept json
// @Produce json
// @Param result body DeliveryCallbackRequest true "Delivery outcome"
// @Success 202 "Accepted"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /sos/delivery/callback [post]
func (h *Handler) deliveryCallback(c *gin.Context) {
	var input DeliveryCallbackRequest
	log := h.logger.WithField("method", "deliveryCallback")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attemptID, _ := uuid.Parse(input.AttemptID)
	sessionID, _ := uuid.Parse(input.SessionID)
	contactID := uuid.Nil
	if input.ContactID != "" {
		contactID, _ = uuid.Parse(input.ContactID)
	}

	h.sosService.HandleDeliveryResult(c.Request.Context(), notify.DeliveryResult{
		AttemptID: attemptID,
		SessionID: sessionID,
		ContactID: contactID,
		Outcome:   notify.DeliveryOutcome(input.Outcome),
		Reason:    input.Reason,
		At:        time.Now(),
	})
	c.Status(http.StatusAccepted)
}

// @Summary List emergency contacts
// @Description List a user's emergency contacts in priority order. Requires API key.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Success 200 {array} ContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	log := h.logger.WithField("method", "listContacts").WithField("user_id", userID)

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, log, err, "Failed to list contacts from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Add an emergency contact
// @Description Add a contact at the end of the user's priority list. Requires API key.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param contact body CreateContactRequest true "Contact creation request"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/contacts [post]
func (h *Handler) createContact(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	log := h.logger.WithField("method", "createContact").WithField("user_id", userID)

	var input CreateContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := &models.EmergencyContact{
		UserID:    userID,
		Name:      input.Name,
		Phone:     input.Phone,
		PushToken: input.PushToken,
	}
	if err := h.contactService.AddContact(c.Request.Context(), contact); err != nil {
		h.serviceError(c, log, err, "Failed to create contact in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToContactResponse(contact))
}

// @Summary Update an emergency contact
// @Description Update a contact's name and channels. Requires API key.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param id path string true "Contact ID"
// @Param contact body UpdateContactRequest true "Contact update request"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid contact ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/contacts/{id} [put]
func (h *Handler) updateContact(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "updateContact").WithField("contact_id", contactID)

	var input UpdateContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := &models.EmergencyContact{
		ID:        contactID,
		UserID:    userID,
		Name:      input.Name,
		Phone:     input.Phone,
		PushToken: input.PushToken,
	}
	if err := h.contactService.UpdateContact(c.Request.Context(), contact); err != nil {
		h.serviceError(c, log, err, "Failed to update contact in service")
		return
	}
	c.JSON(http.StatusOK, ModelToContactResponse(contact))
}

// @Summary Remove an emergency contact
// @Description Remove a contact. Remaining contacts are renumbered to keep ranks dense. Requires API key.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param id path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "deleteContact").WithField("contact_id", contactID)

	if err := h.contactService.RemoveContact(c.Request.Context(), userID, contactID); err != nil {
		h.serviceError(c, log, err, "Failed to remove contact in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Reorder emergency contacts
// @Description Replace the priority order of a user's contacts. The list must contain exactly all of the user's contacts. Requires API key.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param order body ReorderContactsRequest true "New contact order"
// @Success 200 {array} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/contacts/reorder [post]
func (h *Handler) reorderContacts(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	log := h.logger.WithField("method", "reorderContacts").WithField("user_id", userID)

	var input ReorderContactsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderedIDs := make([]uuid.UUID, len(input.OrderedIDs))
	for i, raw := range input.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID in order"})
			return
		}
		orderedIDs[i] = id
	}

	if err := h.contactService.ReorderContacts(c.Request.Context(), userID, orderedIDs); err != nil {
		h.serviceError(c, log, err, "Failed to reorder contacts in service")
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, log, err, "Failed to list contacts after reorder")
		return
	}
	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Get SOS settings
// @Description Get a user's SOS behavior settings. Requires API key.
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} SettingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/settings [get]
func (h *Handler) getSettings(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	log := h.logger.WithField("method", "getSettings").WithField("user_id", userID)

	settings, err := h.contactService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, log, err, "Failed to get settings from service")
		return
	}
	c.JSON(http.StatusOK, ModelToSettingsResponse(settings))
}

// @Summary Update SOS settings
// @Description Update a user's SOS behavior settings. Requires API key.
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path string true "User ID"
// @Param settings body SettingsRequest true "Settings update request"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{user_id}/settings [put]
func (h *Handler) updateSettings(c *gin.Context) {
	userID := models.UserID(c.Param("user_id"))
	log := h.logger.WithField("method", "updateSettings").WithField("user_id", userID)

	var input SettingsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	settings := &models.UserSettings{
		UserID:              userID,
		AutoNotifyAuthority: input.AutoNotifyAuthority,
		ShareLiveLocation:   input.ShareLiveLocation,
		NearbyAlerts:        input.NearbyAlerts,
	}
	if err := h.contactService.UpdateSettings(c.Request.Context(), settings); err != nil {
		h.serviceError(c, log, err, "Failed to update settings in service")
		return
	}
	c.JSON(http.StatusOK, ModelToSettingsResponse(settings))
}

// @Summary Get service statistics
// @Description Get counts of reports and SOS sessions inside the configured time window. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	reportCount, err := h.reportService.GetStats(c.Request.Context())
	if err != nil {
		h.serviceError(c, log, err, "Failed to get report stats from service")
		return
	}
	sessionCount, err := h.sosService.GetStats(c.Request.Context())
	if err != nil {
		h.serviceError(c, log, err, "Failed to get session stats from service")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		ReportCount:    reportCount,
		SessionCount:   sessionCount,
		ActiveSessions: h.sosService.ActiveSessionCount(),
	})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
