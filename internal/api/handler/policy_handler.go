package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
	"github.com/insurancereminder/policy-engine/internal/core/service"
)

// PolicyHandler handles HTTP requests for policy lifecycle operations.
type PolicyHandler struct {
	service ports.PolicyService
}

func NewPolicyHandler(service ports.PolicyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// Create handles POST /v1/policies.
//
// @Summary      Add a new policy
// @Tags         policies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      policyRequest  true  "Policy details"
// @Success      201   {object}  createPolicyResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/policies [post]
func (h *PolicyHandler) Create(c echo.Context) error {
	var req policyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id, err := h.service.AddPolicy(c.Request().Context(), toAddInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createPolicyResponse{ID: id})
}

// Get handles GET /v1/policies/:id.
//
// @Summary      Get a policy
// @Tags         policies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Policy id"
// @Success      200  {object}  policyResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/policies/{id} [get]
func (h *PolicyHandler) Get(c echo.Context) error {
	p, err := h.service.GetPolicy(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPolicyResponse(*p, time.Now().UTC()))
}

// List handles GET /v1/policies.
//
// @Summary      List active policies grouped by category
// @Tags         policies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listPoliciesResponse
// @Router       /v1/policies [get]
func (h *PolicyHandler) List(c echo.Context) error {
	groups, err := h.service.ListActivePolicies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(groups, time.Now().UTC()))
}

// Stream handles GET /v1/policies/stream. It emits the grouped active-policy
// list as server-sent events: one event per data or session change, until
// the client disconnects.
func (h *PolicyHandler) Stream(c echo.Context) error {
	stream, err := h.service.StreamActivePolicies(c.Request().Context())
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	for groups := range stream {
		payload, err := json.Marshal(toListResponse(groups, time.Now().UTC()))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return nil // client went away
		}
		res.Flush()
	}
	return nil
}

// Update handles PUT /v1/policies/:id.
//
// @Summary      Update a policy
// @Tags         policies
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string         true  "Policy id"
// @Param        body  body  policyRequest  true  "Replacement fields"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/policies/{id} [put]
func (h *PolicyHandler) Update(c echo.Context) error {
	var req policyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err := h.service.UpdatePolicy(c.Request().Context(), ports.UpdatePolicyInput{
		ID:     c.Param("id"),
		Fields: toAddInput(req),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/policies/:id (soft delete).
//
// @Summary      Delete a policy
// @Tags         policies
// @Security     BearerAuth
// @Param        id  path  string  true  "Policy id"
// @Success      204
// @Router       /v1/policies/{id} [delete]
func (h *PolicyHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePolicy(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Renew handles POST /v1/policies/:id/renew.
//
// @Summary      Renew a policy
// @Tags         policies
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string              true  "Policy id"
// @Param        body  body  renewPolicyRequest  true  "New expiry date and optional price"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/policies/{id}/renew [post]
func (h *PolicyHandler) Renew(c echo.Context) error {
	var req renewPolicyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err := h.service.RenewPolicy(c.Request().Context(), ports.RenewPolicyInput{
		ID:            c.Param("id"),
		NewExpiryDate: req.NewExpiryDate,
		NewPrice:      req.NewPrice,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Share handles POST /v1/policies/:id/share.
//
// @Summary      Share a policy with a partner
// @Tags         policies
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string              true  "Policy id"
// @Param        body  body  sharePolicyRequest  true  "Partner user id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /v1/policies/{id}/share [post]
func (h *PolicyHandler) Share(c echo.Context) error {
	var req sharePolicyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.SharePolicy(c.Request().Context(), c.Param("id"), req.PartnerUserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachFile handles POST /v1/policies/:id/file.
//
// @Summary      Attach a document reference to a policy
// @Tags         policies
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string             true  "Policy id"
// @Param        body  body  attachFileRequest  true  "File name and URL"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /v1/policies/{id}/file [post]
func (h *PolicyHandler) AttachFile(c echo.Context) error {
	var req attachFileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.AttachPolicyFile(c.Request().Context(), c.Param("id"), req.FileName, req.FileURL); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /v1/policies/export?format=json|csv.
//
// @Summary      Export active policies
// @Tags         policies
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format  query  string  false  "json (default) or csv"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /v1/policies/export [get]
func (h *PolicyHandler) Export(c echo.Context) error {
	format, err := service.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return err
	}

	policies, err := h.service.ExportPolicies(c.Request().Context())
	if err != nil {
		return err
	}

	body, contentType, err := service.EncodeExport(policies, format)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, body)
}
