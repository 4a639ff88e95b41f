package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	api.GET("/products", s.listProducts)
	api.DELETE("/products/cache", s.invalidateProducts)
	api.GET("/productlist", s.listLegacyProducts)
}
