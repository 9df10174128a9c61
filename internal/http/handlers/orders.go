package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/pagination"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order lifecycle over HTTP. Services are built per
// request so every audit line carries the request id and the acting user.
type OrderHandler struct {
	PageSize int
	MaxPage  int
}

func (h OrderHandler) svc(c *gin.Context) services.OrderService {
	actor := ""
	if user, ok := middleware.CurrentUser(c); ok {
		actor = user.Email
	}
	return services.OrderService{
		Repo:      repositories.OrderRepository{},
		PageSize:  h.PageSize,
		MaxPage:   h.MaxPage,
		RequestID: middleware.GetRequestID(c),
		Actor:     actor,
	}
}

func (h OrderHandler) export(c *gin.Context) services.ExportService {
	return services.ExportService{
		Repo:      repositories.OrderRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.NewValidationError("id", "invalid order id"))
		return 0, false
	}
	return id, true
}

// GET /api/orders
func (h OrderHandler) List(c *gin.Context) {
	filter := models.OrderFilter{
		FulfillmentStatus: c.Query("status"),
		PaymentStatus:     c.Query("paymentStatus"),
		DateFrom:          c.Query("date_from"),
		DateTo:            c.Query("date_to"),
		Search:            c.Query("search"),
		IncludeArchived:   c.Query("include_archived") == "true",
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondDomainError(c, domain.NewValidationError("customer_id", "customer_id must be an integer"))
			return
		}
		filter.CustomerID = id
	}
	if raw := c.Query("min_amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondDomainError(c, domain.NewValidationError("min_amount", "min_amount must be a number"))
			return
		}
		filter.MinAmount = &v
	}
	if raw := c.Query("max_amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondDomainError(c, domain.NewValidationError("max_amount", "max_amount must be a number"))
			return
		}
		filter.MaxAmount = &v
	}

	orders, meta, err := h.svc(c).List(filter, pagination.Query{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, orders, meta)
}

// GET /api/orders/:id
func (h OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.svc(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// PUT /api/orders/:id/fulfillment
func (h OrderHandler) UpdateFulfillment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		FulfillmentStatus string `json:"fulfillmentStatus"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	order, err := h.svc(c).UpdateFulfillmentStatus(id, req.FulfillmentStatus)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// PUT /api/orders/:id/payment
func (h OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	order, err := h.svc(c).UpdatePaymentStatus(id, req.PaymentStatus)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// PUT /api/orders/:id/tracking
func (h OrderHandler) UpdateTracking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.TrackingInfo
	if !BindJSONOrError(c, &req) {
		return
	}
	order, err := h.svc(c).UpdateTracking(id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// PUT /api/orders/:id/cancel
func (h OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	order, err := h.svc(c).Cancel(id, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// POST /api/orders/:id/refund
func (h OrderHandler) Refund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	refund, err := h.svc(c).Refund(id, req.Amount, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, refund)
}

// POST /api/orders/bulk
func (h OrderHandler) Bulk(c *gin.Context) {
	var req struct {
		Action   string  `json:"action"`
		OrderIDs []int64 `json:"orderIds"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	processed, err := h.svc(c).BulkAction(req.Action, req.OrderIDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"action": req.Action, "processed": processed})
}

// GET /api/orders/:id/notes
func (h OrderHandler) Notes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	notes, err := h.svc(c).Notes(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, notes)
}

// POST /api/orders/:id/notes
func (h OrderHandler) AddNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	note, err := h.svc(c).AddNote(id, req.Note)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, note)
}

// POST /api/orders/:id/flag
func (h OrderHandler) Flag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	flag, err := h.svc(c).Flag(id, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, flag)
}

// PUT /api/orders/:id/archive
func (h OrderHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Archived bool `json:"archived"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	order, err := h.svc(c).Archive(id, req.Archived)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// GET /api/orders/export?format=csv
func (h OrderHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" {
		RespondDomainError(c, domain.NewValidationError("format", "unsupported export format: "+format))
		return
	}

	data, filename, err := h.export(c).OrdersCSV()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// GET /api/orders/:id/invoice
func (h OrderHandler) Invoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, filename, err := h.export(c).OrderInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
