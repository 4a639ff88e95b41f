package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

func (s *Server) listProducts(c echo.Context) error {
	products, err := s.productSvc.ListProducts(c.Request().Context())
	if err != nil {
		s.logHandlerError(c, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load products")
	}
	return c.JSON(http.StatusOK, product.NewProductsResponse(products, "Products retrieved successfully", s.now()))
}

func (s *Server) listLegacyProducts(c echo.Context) error {
	products, err := s.productSvc.ListLegacyProducts(c.Request().Context())
	if err != nil {
		s.logHandlerError(c, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load products")
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) invalidateProducts(c echo.Context) error {
	s.productSvc.InvalidateProducts(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) logHandlerError(c echo.Context, err error) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"path":       c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}).WithError(err).Error("handler failed")
}
