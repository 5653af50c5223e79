package server

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Resolution
	r.Get("/settings", s.getSettings)
	r.Get("/excluded", s.getExcluded)
	r.Get("/folders", s.getFolders)
	r.Get("/version", s.getVersion)

	// Cache control
	r.Post("/reset", s.resetSettings)
	r.Post("/import", s.registerImport)

	// Settings files
	r.Post("/words", s.addWords)

	// Event streaming (SSE)
	r.Get("/event", s.events)
}
