package api

// Option configures the API server.
type Option func(*Server)

// WithMaxRecentLimit caps the limit parameter accepted by GET /screenings.
func WithMaxRecentLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.screeningsHandler.maxRecent = n
		}
	}
}
