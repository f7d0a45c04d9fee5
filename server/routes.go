package server

// registerRoutes lays out the full API surface. Reading-list routes always
// act on the authenticated user's own list; the catalog is shared.
func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	// Health and accounts.
	api.Get("/health", s.handleHealth)
	api.Put("/create-user", s.handleCreateUser)
	api.Post("/login", s.handleLogin)
	api.Post("/logout", s.requireAuth, s.handleLogout)
	api.Post("/change-password", s.requireAuth, s.handleChangePassword)
	api.Delete("/reset-users", s.handleResetUsers)

	// Catalog.
	api.Post("/create-book", s.requireAuth, s.handleCreateBook)
	api.Delete("/delete-book/:id", s.requireAuth, s.handleDeleteBook)
	api.Get("/get-all-books-from-catalog", s.requireAuth, s.handleGetAllBooks)
	api.Get("/get-book-from-catalog-by-id/:id", s.requireAuth, s.handleGetBookByID)
	api.Get("/get-book-from-catalog-by-compound-key", s.requireAuth, s.handleGetBookByCompoundKey)
	api.Get("/get-random-book", s.requireAuth, s.handleGetRandomBook)
	api.Delete("/reset-books", s.handleResetBooks)
	api.Get("/book-leaderboard", s.handleLeaderboard)

	// Reading list.
	list := api.Group("", s.requireAuth)
	list.Post("/add-book-to-reading-list", s.handleAddToReadingList)
	list.Delete("/remove-book-from-reading-list", s.handleRemoveFromReadingList)
	list.Delete("/remove-book-from-reading-list-by-selection-number/:selection_number", s.handleRemoveBySelection)
	list.Post("/clear-reading-list", s.handleClearReadingList)
	list.Post("/read-current-book", s.handleReadCurrentBook)
	list.Post("/read-entire-reading-list", s.handleReadEntireList)
	list.Post("/read-rest-of-reading-list", s.handleReadRest)
	list.Post("/rewind-reading-list", s.handleRewind)
	list.Post("/go-to-selection-number/:selection_number", s.handleGoToSelection)
	list.Post("/go-to-random-selection", s.handleGoToRandomSelection)
	list.Get("/get-all-books-from-reading-list", s.handleGetReadingList)
	list.Get("/get-book-from-reading-list-by-selection-number/:selection_number", s.handleGetBySelection)
	list.Get("/get-current-book", s.handleGetCurrentBook)
	list.Get("/get-reading-list-length", s.handleGetListLength)
	list.Post("/move-book-to-beginning", s.handleMoveToBeginning)
	list.Post("/move-book-to-end", s.handleMoveToEnd)
	list.Post("/move-book-to-selection-number", s.handleMoveToSelection)
	list.Post("/swap-books-in-reading-list", s.handleSwapBooks)
}
