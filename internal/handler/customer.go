package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/repository"
)

// CustomerHandler manages the customer roster.  All routes require a
// staff login; customers themselves never call this API.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(cu *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: cu}
}

type customerReq struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Phone  string `json:"phone" validate:"required,min=5,max=32"`
	IsGold bool   `json:"is_gold"`
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	items, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cu)
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.Customers.Create(c.Request().Context(), req.Name, req.Phone, req.IsGold)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id})
	}
	return c.JSON(http.StatusCreated, cu)
}

// Update handles PUT /v1/customers/:id.  Edits never touch the
// snapshots embedded in existing rentals.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Customers.Update(c.Request().Context(), id, req.Name, req.Phone, req.IsGold); err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"id": id})
	}
	return c.JSON(http.StatusOK, cu)
}

// Delete handles DELETE /v1/customers/:id.  Refused while the customer
// still has something checked out.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrCustomerNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer has open rentals"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
