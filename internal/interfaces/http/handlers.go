package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/engine"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/ledger"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine engine.Engine
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(eng engine.Engine, logger *zap.Logger) *Handlers {
	return &Handlers{
		engine: eng,
		logger: logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// ActorRequest carries the acting identity. Authentication happens
// upstream; these fields arrive from the already-authenticated identity
// collaborator and are trusted as-is.
type ActorRequest struct {
	ActorID       string `json:"actor_id" binding:"required"`
	ActorCompany  string `json:"actor_company_id"`
	ActorRole     string `json:"actor_role" binding:"required"`
	ActorPosition string `json:"actor_position"`
}

// Actor converts the request fields to a domain actor
func (r ActorRequest) Actor() entity.Actor {
	return entity.Actor{
		ID:        r.ActorID,
		CompanyID: r.ActorCompany,
		Role:      entity.Role(r.ActorRole),
		Position:  entity.Position(r.ActorPosition),
	}
}

// CreateDraftRequest is the body of POST /api/v1/invoices
type CreateDraftRequest struct {
	ActorRequest
	ConstructionSiteID  string          `json:"construction_site_id" binding:"required"`
	SubmittingCompanyID string          `json:"submitting_company_id" binding:"required"`
	DocumentType        string          `json:"document_type" binding:"required"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	PaymentDueDate      *time.Time      `json:"payment_due_date,omitempty"`
	Items               []ItemRequest   `json:"items"`
}

// ItemRequest is one line item in a draft request
type ItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// VersionedRequest is the body of the transition endpoints
type VersionedRequest struct {
	ActorRequest
	ExpectedVersion int64  `json:"expected_version"`
	Comment         string `json:"comment,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// ReturnRequest is the body of POST /api/v1/invoices/:id/return
type ReturnRequest struct {
	ActorRequest
	ExpectedVersion int64          `json:"expected_version"`
	Note            string         `json:"note"`
	Corrections     []ledger.Input `json:"corrections"`
}

// CommentRequest is the body of POST /api/v1/invoices/:id/comments
type CommentRequest struct {
	ActorRequest
	Comment string `json:"comment" binding:"required"`
}

// statusForKind maps the engine's error taxonomy to HTTP status codes
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidState, apperr.KindPeriodClosed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes an engine error as a JSON response
func (h *Handlers) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}
	c.JSON(status, Response{Success: false, Error: err.Error(), Kind: string(kind)})
}

func (h *Handlers) respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.respondOK(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateDraft handles POST /api/v1/invoices
func (h *Handlers) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	items := make([]engine.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, engine.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	inv, err := h.engine.CreateDraft(c.Request.Context(), req.Actor(), engine.CreateDraftInput{
		ConstructionSiteID:  req.ConstructionSiteID,
		SubmittingCompanyID: req.SubmittingCompanyID,
		DocumentType:        entity.DocumentType(req.DocumentType),
		TaxAmount:           req.TaxAmount,
		PaymentDueDate:      req.PaymentDueDate,
		Items:               items,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusCreated, inv)
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.engine.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// GetHistory handles GET /api/v1/invoices/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	entries, err := h.engine.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, entries)
}

// GetCorrections handles GET /api/v1/invoices/:id/corrections
func (h *Handlers) GetCorrections(c *gin.Context) {
	batch, err := h.engine.LatestCorrections(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, batch)
}

// Submit handles POST /api/v1/invoices/:id/submit
func (h *Handlers) Submit(c *gin.Context) {
	var req VersionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.Submit(c.Request.Context(), c.Param("id"), req.Actor(), req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// Approve handles POST /api/v1/invoices/:id/approve
func (h *Handlers) Approve(c *gin.Context) {
	var req VersionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.Approve(c.Request.Context(), c.Param("id"), req.Actor(), req.Comment, req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// Reject handles POST /api/v1/invoices/:id/reject
func (h *Handlers) Reject(c *gin.Context) {
	var req VersionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.Reject(c.Request.Context(), c.Param("id"), req.Actor(), req.Reason, req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// RequestCorrection handles POST /api/v1/invoices/:id/return
func (h *Handlers) RequestCorrection(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.RequestCorrection(c.Request.Context(), c.Param("id"), req.Actor(), req.Corrections, req.Note, req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// AcknowledgeReturn handles POST /api/v1/invoices/:id/acknowledge
func (h *Handlers) AcknowledgeReturn(c *gin.Context) {
	var req VersionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.AcknowledgeReturn(c.Request.Context(), c.Param("id"), req.Actor(), req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}

// AddComment handles POST /api/v1/invoices/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := h.engine.AddComment(c.Request.Context(), c.Param("id"), req.Actor(), req.Comment); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusCreated, gin.H{"invoice_id": c.Param("id")})
}

// MarkPaid handles POST /api/v1/invoices/:id/pay
func (h *Handlers) MarkPaid(c *gin.Context) {
	var req VersionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	inv, err := h.engine.MarkPaid(c.Request.Context(), c.Param("id"), req.Actor(), req.ExpectedVersion)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, inv)
}
