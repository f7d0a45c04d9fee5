package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"booktracker/library"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "Service is running"})
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if _, err := s.db.CreateUser(req.Username, req.Password); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("User %q created successfully", req.Username),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	user, err := s.db.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("User %q logged in successfully", user.Username),
		"token":   token,
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	exp, ok := c.Locals("token_exp").(time.Time)
	if !ok {
		exp = time.Now().Add(s.cfg.TokenTTL)
	}
	s.revoked.revoke(token, exp)
	return c.JSON(fiber.Map{"status": "success", "message": "User logged out successfully"})
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.db.UpdatePassword(userID(c), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Password changed successfully"})
}

func (s *Server) handleResetUsers(c *fiber.Ctx) error {
	if err := s.db.ResetUsers(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Users table recreated successfully"})
}

// issueToken signs an HS256 JWT whose subject is the user ID.
func (s *Server) issueToken(u *library.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}
