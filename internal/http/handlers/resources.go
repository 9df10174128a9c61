package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/pagination"
	"backoffice/internal/resource"
	"backoffice/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,31}$`)

// CustomerDefinition declares the customers resource for the generic engine.
func CustomerDefinition() resource.Definition {
	return resource.Definition{
		Table: "customers",
		Schema: validation.Schema{
			"name":    {Required: true, Type: validation.TypeString, Min: validation.Num(2), Max: validation.Num(120)},
			"email":   {Required: true, Type: validation.TypeEmail},
			"phone":   {Type: validation.TypeString, Max: validation.Num(32)},
			"address": {Type: validation.TypeString, Max: validation.Num(500)},
		},
		SearchFields:      []string{"name", "email"},
		AllowedSortFields: []string{"id", "name", "email", "created_at"},
		DefaultSort:       "created_at",
		SoftDelete:        true,
	}
}

// ProductDefinition declares the products resource.
func ProductDefinition() resource.Definition {
	return resource.Definition{
		Table: "products",
		Schema: validation.Schema{
			"name":        {Required: true, Type: validation.TypeString, Min: validation.Num(2), Max: validation.Num(200)},
			"sku":         {Required: true, Type: validation.TypeString, Pattern: skuPattern},
			"price":       {Required: true, Type: validation.TypeNumber, Min: validation.Num(0)},
			"stock":       {Type: validation.TypeNumber, Min: validation.Num(0)},
			"category":    {Type: validation.TypeString, Max: validation.Num(100)},
			"description": {Type: validation.TypeString, Max: validation.Num(2000)},
			"image_url":   {Type: validation.TypeURL},
		},
		SearchFields:      []string{"name", "sku", "description"},
		AllowedSortFields: []string{"id", "name", "price", "stock", "created_at"},
		DefaultSort:       "created_at",
	}
}

// orderPolicy derives the server-owned fields of a new order. Clients never
// pick order numbers or starting statuses.
type orderPolicy struct {
	resource.BasePolicy
}

func (orderPolicy) BeforeCreate(data map[string]any, user models.AdminUser) (map[string]any, error) {
	out := make(map[string]any, len(data)+4)
	for k, v := range data {
		out[k] = v
	}
	out["order_number"] = "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	out["fulfillment_status"] = domain.FulfillmentPending
	out["payment_status"] = domain.PaymentPending
	out["archived"] = 0
	return out, nil
}

// OrderCreateDefinition routes new orders through the generic engine; the
// lifecycle endpoints take over once the row exists.
func OrderCreateDefinition() resource.Definition {
	return resource.Definition{
		Table: "orders",
		Schema: validation.Schema{
			"customer_id":    {Required: true, Type: validation.TypeNumber, Min: validation.Num(1)},
			"customer_name":  {Required: true, Type: validation.TypeString, Min: validation.Num(2), Max: validation.Num(120)},
			"customer_email": {Required: true, Type: validation.TypeEmail},
			"total_amount":   {Required: true, Type: validation.TypeNumber, Min: validation.Num(0)},
		},
		AllowedSortFields: []string{"id", "created_at"},
		DefaultSort:       "created_at",
		Policy:            orderPolicy{},
	}
}

// ResourceHandler serves the generic CRUD surface for registered resources.
type ResourceHandler struct {
	Engine resource.Engine
}

// Mount registers the full generic route set on g. Mutating routes run behind
// the supplied write guard; filters lists the query params accepted as
// equality conditions.
func (h ResourceHandler) Mount(g *gin.RouterGroup, def resource.Definition, filters []string, write gin.HandlerFunc) {
	g.GET("", h.list(def, filters))
	g.GET("/:id", h.get(def))
	g.POST("", write, h.create(def))
	g.PUT("/:id", write, h.update(def))
	g.DELETE("/:id", write, h.del(def))
	g.POST("/bulk", write, h.bulkCreate(def))
	g.DELETE("/bulk", write, h.bulkDelete(def))
}

// CreateHandler exposes only the create route, for resources whose other
// operations live elsewhere.
func (h ResourceHandler) CreateHandler(def resource.Definition) gin.HandlerFunc {
	return h.create(def)
}

func (h ResourceHandler) list(def resource.Definition, filters []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		where := map[string]any{}
		for _, f := range filters {
			if v := c.Query(f); v != "" {
				where[f] = v
			}
		}

		result, err := h.Engine.List(def, pagination.Query{
			Page:      c.Query("page"),
			Limit:     c.Query("limit"),
			SortBy:    c.Query("sort"),
			SortOrder: c.Query("sortOrder"),
		}, c.Query("search"), where)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondList(c, result.Data, result.Meta)
	}
}

func (h ResourceHandler) get(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.Engine.Get(def, c.Param("id"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, item)
	}
}

func (h ResourceHandler) create(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data map[string]any
		if !BindJSONOrError(c, &data) {
			return
		}
		user, _ := middleware.CurrentUser(c)
		item, err := h.Engine.Create(def, data, user)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusCreated, item)
	}
}

func (h ResourceHandler) update(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data map[string]any
		if !BindJSONOrError(c, &data) {
			return
		}
		user, _ := middleware.CurrentUser(c)
		item, err := h.Engine.Update(def, c.Param("id"), data, user)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, item)
	}
}

func (h ResourceHandler) del(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		if err := h.Engine.Delete(def, c.Param("id"), user); err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func (h ResourceHandler) bulkCreate(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []map[string]any
		if !BindJSONOrError(c, &items) {
			return
		}
		user, _ := middleware.CurrentUser(c)
		created, err := h.Engine.BulkCreate(def, items, user)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusCreated, created)
	}
}

func (h ResourceHandler) bulkDelete(def resource.Definition) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDs []any `json:"ids"`
		}
		if !BindJSONOrError(c, &req) {
			return
		}
		ids := make([]string, 0, len(req.IDs))
		for _, id := range req.IDs {
			ids = append(ids, fmt.Sprint(id))
		}
		count, err := h.Engine.BulkDelete(def, ids)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"deletedCount": count})
	}
}
