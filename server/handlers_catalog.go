package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleCreateBook(c *fiber.Ctx) error {
	var req createBookRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	id, err := s.db.CreateBook(req.Author, req.Title, req.Year, req.Genre, req.Length)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' by %s (%d) added to catalog", req.Title, req.Author, req.Year),
		"id":      id,
	})
}

func (s *Server) handleDeleteBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteBook(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book with ID %d deleted from catalog", id),
	})
}

func (s *Server) handleGetAllBooks(c *fiber.Ctx) error {
	sortByReadCount := c.QueryBool("sort_by_read_count")
	books, err := s.db.ListBooks(sortByReadCount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "books": books})
}

func (s *Server) handleGetBookByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := s.db.GetBook(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "book": book})
}

func (s *Server) handleGetBookByCompoundKey(c *fiber.Ctx) error {
	author := c.Query("author")
	title := c.Query("title")
	yearRaw := c.Query("year")
	if author == "" || title == "" || yearRaw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "author, title, and year are required query parameters")
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "year must be an integer")
	}

	book, err := s.db.GetBookByCompoundKey(author, title, year)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "book": book})
}

func (s *Server) handleGetRandomBook(c *fiber.Ctx) error {
	book, err := s.db.RandomBook()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "book": book})
}

func (s *Server) handleResetBooks(c *fiber.Ctx) error {
	if err := s.db.ResetBooks(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Books table recreated successfully"})
}

// handleLeaderboard returns the whole catalog ordered by read count
// descending, ties broken by ID ascending. Not user-scoped.
func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	books, err := s.db.ListBooks(true)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "leaderboard": books})
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, c.Params(name)))
	}
	return id, nil
}
