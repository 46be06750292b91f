package controllers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/models"
	"lexdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// BaseController provides generic CRUD operations for any tenant-scoped
// model. Every operation passes through the guard: permission first, then
// tenant match, then quota on creation.
type BaseController[T any] struct {
	service  services.BaseService[T]
	guard    *access.Guard
	category models.Category
	kind     models.ResourceKind // empty when the entity is not quota-bound
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T], guard *access.Guard, category models.Category, kind models.ResourceKind) *BaseController[T] {
	return &BaseController[T]{
		service:  service,
		guard:    guard,
		category: category,
		kind:     kind,
	}
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

// parseExcludes parses the exclude query parameter and returns a slice of fields to exclude
func parseExcludes(ctx echo.Context) []string {
	exclude := ctx.QueryParam("exclude")
	if exclude == "" {
		return nil
	}
	return strings.Split(exclude, ",")
}

// filterableColumns lists the column names derived from the entity's fields.
// Filter keys and sort columns are checked against this set, so request input
// never reaches the SQL text.
func filterableColumns[T any]() map[string]bool {
	cols := make(map[string]bool)
	var entity T
	collectColumns(reflect.TypeOf(entity), cols)
	return cols
}

func collectColumns(t reflect.Type, cols map[string]bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			collectColumns(f.Type, cols)
			continue
		}
		cols[columnName(f.Name)] = true
	}
}

// columnName converts an exported field name to its snake_case column.
func columnName(field string) string {
	var b strings.Builder
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= 'A' && c <= 'Z' {
			prevLower := i > 0 && field[i-1] >= 'a' && field[i-1] <= 'z'
			nextLower := i+1 < len(field) && field[i+1] >= 'a' && field[i+1] <= 'z'
			if prevLower || (i > 0 && nextLower) {
				b.WriteByte('_')
			}
			b.WriteByte(c - 'A' + 'a')
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func entityTenantID[T any](entity *T) string {
	v := reflect.ValueOf(entity).Elem().FieldByName("TenantID")
	if v.IsValid() && v.Kind() == reflect.String {
		return v.String()
	}
	return ""
}

func setEntityTenantID[T any](entity *T, tenantID string) {
	v := reflect.ValueOf(entity).Elem().FieldByName("TenantID")
	if v.IsValid() && v.CanSet() && v.Kind() == reflect.String {
		v.SetString(tenantID)
	}
}

// Create handles creation of new entities. The tenant id is stamped from the
// guard's resolution, never from the request body.
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	actor := apimiddleware.GetActor(ctx)
	reqCtx := ctx.Request().Context()

	var tenantID string
	if c.kind != "" {
		var r *access.Refusal
		tenantID, r = c.guard.CheckCreate(reqCtx, actor, c.category, c.kind, 1)
		if r != nil {
			return apimiddleware.Deny(ctx, r)
		}
	} else {
		if r := c.guard.Check(actor, c.category, models.ActionCreate, access.AuthorizeOpts{}); r != nil {
			return apimiddleware.Deny(ctx, r)
		}
		var r *access.Refusal
		tenantID, r = c.guard.Tenant(reqCtx, actor)
		if r != nil {
			return apimiddleware.Deny(ctx, r)
		}
	}

	setEntityTenantID(&entity, tenantID)

	includes := parseIncludes(ctx)
	if err := c.service.Create(reqCtx, &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.kind != "" {
		c.guard.CommitCreate(reqCtx, tenantID, c.kind, 1)
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	actor := apimiddleware.GetActor(ctx)
	if r := c.guard.Check(actor, c.category, models.ActionView, access.AuthorizeOpts{}); r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	if r := c.guard.CheckEntity(ctx.Request().Context(), actor, c.category, models.ActionView, entityTenantID(entity)); r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering.
// Results are always constrained to the actor's tenant.
func (c *BaseController[T]) List(ctx echo.Context) error {
	actor := apimiddleware.GetActor(ctx)
	if r := c.guard.Check(actor, c.category, models.ActionView, access.AuthorizeOpts{}); r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	tenantID, r := c.guard.Tenant(ctx.Request().Context(), actor)
	if r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	exclude := parseExcludes(ctx)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Parse filters from query parameters. Keys that don't name an entity
	// column are dropped.
	columns := filterableColumns[T]()
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if key == "page" || key == "limit" || key == "include" || key == "exclude" || key == "sort" || key == "order" {
			continue
		}
		if columns[key] && len(values) > 0 {
			filters[key] = values[0]
		}
	}
	filters["tenant_id"] = tenantID

	includes := parseIncludes(ctx)

	excludeFields := make(map[string]bool)
	for _, field := range exclude {
		excludeFields[field] = true
	}

	sort := ctx.QueryParam("sort")
	order := strings.ToLower(ctx.QueryParam("order"))
	if order != "desc" {
		order = "asc"
	}
	var sortFields []string
	if sort != "" {
		var entity T
		entityType := reflect.TypeOf(entity)
		for _, field := range strings.Split(sort, ",") {
			if _, found := entityType.FieldByName(field); found {
				sortFields = append(sortFields, columnName(field))
			}
		}
	}

	entities, total, err := c.service.List(ctx.Request().Context(), page, limit, filters, excludeFields, sortFields, order, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	actor := apimiddleware.GetActor(ctx)
	existing, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}
	if r := c.guard.CheckEntity(ctx.Request().Context(), actor, c.category, models.ActionEdit, entityTenantID(existing)); r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	includes := parseIncludes(ctx)
	if err := c.service.Update(ctx.Request().Context(), id, &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity. Usage counters are untouched; the
// freed capacity is reclaimed when reconciliation recounts.
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	actor := apimiddleware.GetActor(ctx)
	existing, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}
	tenantID := entityTenantID(existing)
	if r := c.guard.CheckEntity(ctx.Request().Context(), actor, c.category, models.ActionDelete, tenantID); r != nil {
		return apimiddleware.Deny(ctx, r)
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
