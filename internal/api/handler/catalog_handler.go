package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/service"
)

// CatalogHandler serves the insurer and comparison-provider catalogs.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Companies handles GET /v1/companies?type=AUTO.
//
// @Summary      List insurance companies
// @Tags         catalog
// @Produce      json
// @Param        type  query  string  false  "Filter by policy type"
// @Success      200  {array}  companyResponse
// @Failure      400  {object}  map[string]string
// @Router       /v1/companies [get]
func (h *CatalogHandler) Companies(c echo.Context) error {
	policyType, err := parseTypeParam(c.QueryParam("type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponses(h.catalog.Companies(policyType)))
}

// ComparisonProviders handles GET /v1/comparison-providers?type=AUTO.
//
// @Summary      List price comparison providers
// @Tags         catalog
// @Produce      json
// @Param        type  query  string  false  "Filter by policy type"
// @Success      200  {array}  comparisonProviderResponse
// @Failure      400  {object}  map[string]string
// @Router       /v1/comparison-providers [get]
func (h *CatalogHandler) ComparisonProviders(c echo.Context) error {
	policyType, err := parseTypeParam(c.QueryParam("type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProviderResponses(h.catalog.ComparisonProviders(policyType)))
}

func parseTypeParam(raw string) (domain.PolicyType, error) {
	if raw == "" {
		return "", nil
	}
	return domain.ParsePolicyType(raw)
}
