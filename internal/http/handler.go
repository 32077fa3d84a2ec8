package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/http/middleware"
	"github.com/devogs/epic-events-crm/internal/model"
	"github.com/devogs/epic-events-crm/internal/service"
)

type Handler struct {
	crm *service.CRMService
	log zerolog.Logger
}

func NewHandler(crm *service.CRMService, log zerolog.Logger) *Handler {
	return &Handler{crm: crm, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.POST("/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/employees", h.listEmployees)
	protected.GET("/employees/:id", h.getEmployee)
	protected.POST("/employees", h.createEmployee)
	protected.PATCH("/employees/:id", h.updateEmployee)
	protected.DELETE("/employees/:id", h.deleteEmployee)

	protected.GET("/clients", h.listClients)
	protected.POST("/clients", h.createClient)
	protected.PATCH("/clients/:id", h.updateClient)

	protected.GET("/contracts", h.listContracts)
	protected.POST("/contracts", h.createContract)
	protected.PATCH("/contracts/:id", h.updateContract)

	protected.GET("/events", h.listEvents)
	protected.POST("/events", h.createEvent)
	protected.PATCH("/events/:id", h.updateEvent)

	protected.GET("/reports/contracts.xlsx", h.exportContracts)
	protected.GET("/reports/events/:id", h.exportEventSheet)
}

// --- auth ---

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.crm.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    result.Token,
		"employee": employeeResponse(result.Employee),
	})
}

// --- employees ---

type createEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) createEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.crm.CreateEmployee(c.Request.Context(), principal, service.CreateEmployeeInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     model.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employeeResponse(*employee))
}

func (h *Handler) getEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	employee, err := h.crm.GetEmployee(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employeeResponse(*employee))
}

func (h *Handler) listEmployees(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	employees, err := h.crm.ListEmployees(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	responses := make([]gin.H, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, employeeResponse(employee))
	}
	c.JSON(http.StatusOK, responses)
}

type updateEmployeeRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (h *Handler) updateEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cs := model.EmployeeChangeSet{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if req.Role != nil {
		role := model.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		cs.Role = &role
	}

	employee, err := h.crm.UpdateEmployee(c.Request.Context(), principal, id, cs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employeeResponse(*employee))
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.crm.DeleteEmployee(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- clients ---

type createClientRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	Phone          string  `json:"phone" binding:"required"`
	CompanyName    string  `json:"company_name"`
	SalesContactID *string `json:"sales_contact_id"`
}

func (h *Handler) createClient(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.CreateClientInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	}
	if req.SalesContactID != nil {
		id, err := uuid.Parse(*req.SalesContactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales_contact_id"})
			return
		}
		input.SalesContactID = &id
	}

	client, err := h.crm.CreateClient(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) listClients(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter authz.ClientFilter
	if raw := c.Query("sales_contact_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales_contact_id"})
			return
		}
		filter.SalesContactID = &id
	}

	clients, err := h.crm.ListClients(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

type updateClientRequest struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	CompanyName    *string `json:"company_name"`
	SalesContactID *string `json:"sales_contact_id"`
}

func (h *Handler) updateClient(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cs := model.ClientChangeSet{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	}
	if req.SalesContactID != nil {
		contactID, err := uuid.Parse(*req.SalesContactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sales_contact_id"})
			return
		}
		cs.SalesContactID = &contactID
	}

	client, err := h.crm.UpdateClient(c.Request.Context(), principal, id, cs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// --- contracts ---

type createContractRequest struct {
	ClientID        string  `json:"client_id" binding:"required"`
	TotalAmount     float64 `json:"total_amount" binding:"required"`
	RemainingAmount float64 `json:"remaining_amount"`
	Signed          bool    `json:"signed"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return
	}

	contract, err := h.crm.CreateContract(c.Request.Context(), principal, service.CreateContractInput{
		ClientID:        clientID,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		Signed:          req.Signed,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filter, err := contractFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contracts, err := h.crm.ListContracts(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

type updateContractRequest struct {
	TotalAmount     *float64 `json:"total_amount"`
	RemainingAmount *float64 `json:"remaining_amount"`
	Signed          *bool    `json:"signed"`
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.crm.UpdateContract(c.Request.Context(), principal, id, model.ContractChangeSet{
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		Signed:          req.Signed,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// --- events ---

type createEventRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Attendees  int    `json:"attendees"`
	StartAt    string `json:"start_at" binding:"required"`
	EndAt      string `json:"end_at" binding:"required"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

func (h *Handler) createEvent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contractID, err := uuid.Parse(strings.TrimSpace(req.ContractID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract_id"})
		return
	}
	startAt, err := parseDate(req.StartAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_at"})
		return
	}
	endAt, err := parseDate(req.EndAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_at"})
		return
	}

	event, err := h.crm.CreateEvent(c.Request.Context(), principal, service.CreateEventInput{
		ContractID: contractID,
		Name:       req.Name,
		Attendees:  req.Attendees,
		StartAt:    startAt,
		EndAt:      endAt,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *Handler) listEvents(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter authz.EventFilter
	if raw := c.Query("support_contact_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid support_contact_id"})
			return
		}
		filter.SupportContactID = &id
	}
	filter.OnlyUnassigned = c.Query("unassigned") == "true"
	filter.All = c.Query("all") == "true"

	events, err := h.crm.ListEvents(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// optionalUUID distinguishes an absent support_contact_id from an
// explicit null (unassign).
type optionalUUID struct {
	present bool
	id      *uuid.UUID
}

func (o *optionalUUID) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	o.id = &id
	return nil
}

type updateEventRequest struct {
	Name             *string      `json:"name"`
	Location         *string      `json:"location"`
	Notes            *string      `json:"notes"`
	Attendees        *int         `json:"attendees"`
	StartAt          *string      `json:"start_at"`
	EndAt            *string      `json:"end_at"`
	SupportContactID optionalUUID `json:"support_contact_id"`
}

func (h *Handler) updateEvent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cs := model.EventChangeSet{
		Name:      req.Name,
		Location:  req.Location,
		Notes:     req.Notes,
		Attendees: req.Attendees,
	}
	if req.StartAt != nil {
		startAt, err := parseDate(*req.StartAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_at"})
			return
		}
		cs.StartAt = &startAt
	}
	if req.EndAt != nil {
		endAt, err := parseDate(*req.EndAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_at"})
			return
		}
		cs.EndAt = &endAt
	}
	if req.SupportContactID.present {
		cs.SupportContact = &model.SupportAssignment{ContactID: req.SupportContactID.id}
	}

	event, err := h.crm.UpdateEvent(c.Request.Context(), principal, id, cs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// --- reports ---

func (h *Handler) exportContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filter, err := contractFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.crm.ExportContractBook(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) exportEventSheet(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	// accepts both /reports/events/<id> and /reports/events/<id>.pdf
	raw := strings.TrimSuffix(strings.TrimSpace(c.Param("id")), ".pdf")
	eventID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	result, err := h.crm.ExportEventSheet(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

// --- helpers ---

func (h *Handler) handleError(c *gin.Context, err error) {
	var denial *authz.Denial
	var validation *authz.ValidationError
	switch {
	case errors.As(err, &denial):
		c.JSON(http.StatusForbidden, gin.H{
			"error":  denial.Message,
			"reason": string(denial.Reason),
			"field":  denial.Field,
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Message,
			"field": validation.Field,
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func employeeResponse(employee model.Employee) gin.H {
	return gin.H{
		"id":         employee.ID,
		"full_name":  employee.FullName,
		"email":      employee.Email,
		"phone":      employee.Phone,
		"role":       employee.Role,
		"created_at": employee.CreatedAt,
	}
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func contractFilterFromQuery(c *gin.Context) (authz.ContractFilter, error) {
	var filter authz.ContractFilter
	if raw := c.Query("sales_contact_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid sales_contact_id")
		}
		filter.SalesContactID = &id
	}
	if raw := c.Query("signed"); raw != "" {
		signed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("invalid signed")
		}
		filter.Signed = &signed
	}
	filter.Unpaid = c.Query("unpaid") == "true"
	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}
