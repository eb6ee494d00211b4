package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// ClientHandler handles HTTP requests for the client directory.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /clients.
//
// @Summary      Register a new client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.service.Create(c.Request().Context(), actor, toCreateInput(req))
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "client created", client)
}

// List handles GET /clients.
//
// @Summary      List clients (paginated, filterable, searchable)
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        status      query  string  false  "active|inactive|suspended|all (default active)"
// @Param        client_type query  string  false  "individual|corporate"
// @Param        department  query  string  false  "preferred department id"
// @Param        search      query  string  false  "substring across name/email/phone/company/id number"
// @Param        sort_by     query  string  false  "sort field (default created_at)"
// @Param        sort_order  query  string  false  "asc|desc (default desc)"
// @Param        page        query  int     false  "1-based page"
// @Param        limit       query  int     false  "page size"
// @Success      200  {object}  envelope
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), actor, ports.ListClientsInput{
		Status:       c.QueryParam("status"),
		ClientType:   c.QueryParam("client_type"),
		DepartmentID: c.QueryParam("department"),
		Search:       c.QueryParam("search"),
		SortBy:       c.QueryParam("sort_by"),
		SortOrder:    c.QueryParam("sort_order"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "clients retrieved", toListResponse(result))
}

// Search handles GET /clients/search — the typeahead lookup.
//
// @Summary      Search active clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q      query  string  true   "query (min 2 non-space characters)"
// @Param        limit  query  int     false  "max results"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Router       /clients/search [get]
func (h *ClientHandler) Search(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	hits, err := h.service.Search(c.Request().Context(), actor, c.QueryParam("q"), limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "search results", hits)
}

// Stats handles GET /clients/stats.
//
// @Summary      Firm-level client aggregate
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /clients/stats [get]
func (h *ClientHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "stats retrieved", stats)
}

// Get handles GET /clients/:id.
//
// @Summary      Fetch one client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	client, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "client retrieved", client)
}

// Update handles PUT /clients/:id.
//
// @Summary      Partially update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "Client id"
// @Param        body  body  updateClientRequest  true  "Fields to update"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toPatch(req))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "client updated", client)
}

// Delete handles DELETE /clients/:id.
//
// @Summary      Permanently delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "client deleted", deleteClientResponse{ID: id, Deleted: true})
}
