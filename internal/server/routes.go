package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public site
	mux.HandleFunc("GET /api/dogs", s.app.PublicDogHandler.List)
	mux.HandleFunc("GET /api/dogs/{id}", s.app.PublicDogHandler.Get)
	mux.HandleFunc("POST /api/contact", s.app.ContactHandler.Submit)
	mux.HandleFunc("POST /api/applications", s.app.ApplicationHandler.Create)
	mux.HandleFunc("GET /media/{key...}", s.app.MediaHandler.Serve)

	// Authentication (rate limited per IP)
	mux.Handle("GET /api/auth/status", s.authRateLimit(http.HandlerFunc(s.app.AuthHandler.Status)))
	mux.Handle("POST /api/auth/setup", s.authRateLimit(http.HandlerFunc(s.app.AuthHandler.Setup)))
	mux.Handle("POST /api/auth/login", s.authRateLimit(http.HandlerFunc(s.app.AuthHandler.Login)))
	mux.Handle("POST /api/auth/logout", s.authRateLimit(http.HandlerFunc(s.app.AuthHandler.Logout)))

	// Back office (session gated)
	admin := func(h http.HandlerFunc) http.Handler { return s.requireAuth(h) }
	mux.Handle("GET /api/admin/dogs", admin(s.app.AdminDogHandler.List))
	mux.Handle("POST /api/admin/dogs", admin(s.app.AdminDogHandler.Create))
	mux.Handle("GET /api/admin/dogs/{id}", admin(s.app.AdminDogHandler.Get))
	mux.Handle("PUT /api/admin/dogs/{id}", admin(s.app.AdminDogHandler.Update))
	mux.Handle("DELETE /api/admin/dogs/{id}", admin(s.app.AdminDogHandler.Delete))
	mux.Handle("POST /api/admin/dogs/{id}/images", admin(s.app.AdminDogHandler.UploadImage))
	mux.Handle("DELETE /api/admin/dogs/{id}/images/{imageID}", admin(s.app.AdminDogHandler.DeleteImage))
	mux.Handle("POST /api/admin/dogs/{id}/images/{imageID}/primary", admin(s.app.AdminDogHandler.SetPrimaryImage))
	mux.Handle("GET /api/admin/applications", admin(s.app.ApplicationHandler.List))
	mux.Handle("GET /api/admin/applications/{id}", admin(s.app.ApplicationHandler.Get))
	mux.Handle("POST /api/admin/applications/{id}/status", admin(s.app.ApplicationHandler.UpdateStatus))
	mux.Handle("GET /api/admin/media", admin(s.app.MediaHandler.List))
	mux.Handle("POST /api/admin/media/delete", admin(s.app.MediaHandler.Delete))
	mux.Handle("GET /api/admin/stats", admin(s.app.StatsHandler.ServeHTTP))

	// Infra
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"The requested endpoint does not exist"}}`))
}
