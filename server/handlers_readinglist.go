package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleAddToReadingList(c *fiber.Ctx) error {
	var req bookKeyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	book, err := s.lists.Add(userID(c), req.Author, req.Title, req.Year)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' added to reading list", book.Title),
		"book":    book,
	})
}

func (s *Server) handleRemoveFromReadingList(c *fiber.Ctx) error {
	var req bookKeyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	book, err := s.lists.RemoveByKey(userID(c), req.Author, req.Title, req.Year)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' removed from reading list", book.Title),
	})
}

func (s *Server) handleRemoveBySelection(c *fiber.Ctx) error {
	n, err := pathSelection(c)
	if err != nil {
		return err
	}
	book, err := s.lists.RemoveBySelection(userID(c), n)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' removed from selection number %d", book.Title, n),
	})
}

func (s *Server) handleClearReadingList(c *fiber.Ctx) error {
	s.lists.Clear(userID(c))
	return c.JSON(fiber.Map{"status": "success", "message": "Reading list cleared"})
}

func (s *Server) handleReadCurrentBook(c *fiber.Ctx) error {
	book, err := s.lists.ReadCurrent(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Read book '%s'", book.Title),
		"book":    book,
	})
}

func (s *Server) handleReadEntireList(c *fiber.Ctx) error {
	if err := s.lists.ReadEntireList(userID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Read entire reading list"})
}

func (s *Server) handleReadRest(c *fiber.Ctx) error {
	if err := s.lists.ReadRest(userID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Read rest of reading list"})
}

func (s *Server) handleRewind(c *fiber.Ctx) error {
	if err := s.lists.Rewind(userID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Reading list rewound to selection number 1"})
}

func (s *Server) handleGoToSelection(c *fiber.Ctx) error {
	n, err := pathSelection(c)
	if err != nil {
		return err
	}
	if err := s.lists.GoToSelection(userID(c), n); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Now reading from selection number %d", n),
	})
}

func (s *Server) handleGoToRandomSelection(c *fiber.Ctx) error {
	n, err := s.lists.GoToRandom(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Now reading from random selection number %d", n),
	})
}

func (s *Server) handleGetReadingList(c *fiber.Ctx) error {
	entries, err := s.lists.Entries(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "reading_list": entries})
}

func (s *Server) handleGetBySelection(c *fiber.Ctx) error {
	n, err := pathSelection(c)
	if err != nil {
		return err
	}
	book, err := s.lists.BySelection(userID(c), n)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "book": book})
}

func (s *Server) handleGetCurrentBook(c *fiber.Ctx) error {
	book, err := s.lists.Current(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "book": book})
}

func (s *Server) handleGetListLength(c *fiber.Ctx) error {
	summary, err := s.lists.Summary(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":      "success",
		"length":      summary.Length,
		"total_pages": summary.TotalPages,
	})
}

func (s *Server) handleMoveToBeginning(c *fiber.Ctx) error {
	var req bookKeyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if err := s.lists.MoveToBeginning(userID(c), req.Author, req.Title, req.Year); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' moved to beginning of reading list", req.Title),
	})
}

func (s *Server) handleMoveToEnd(c *fiber.Ctx) error {
	var req bookKeyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if err := s.lists.MoveToEnd(userID(c), req.Author, req.Title, req.Year); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' moved to end of reading list", req.Title),
	})
}

func (s *Server) handleMoveToSelection(c *fiber.Ctx) error {
	var req moveToSelectionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if err := s.lists.MoveToSelection(userID(c), req.Author, req.Title, req.Year, req.SelectionNumber); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Book '%s' moved to selection number %d", req.Title, req.SelectionNumber),
	})
}

func (s *Server) handleSwapBooks(c *fiber.Ctx) error {
	var req swapRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if err := s.lists.Swap(userID(c), req.SelectionNumber1, req.SelectionNumber2); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Swapped selection numbers %d and %d", req.SelectionNumber1, req.SelectionNumber2),
	})
}

func pathSelection(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(c.Params("selection_number"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("invalid selection number: %s", c.Params("selection_number")))
	}
	return n, nil
}
