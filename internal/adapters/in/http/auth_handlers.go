package http

import (
	"net/http"

	"laundry/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// RegisterUser handles POST /api/v1/auth/register.
func (s *Server) RegisterUser(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterUserCommand(req.Email, req.Password)
	if err != nil {
		return err
	}
	result, err := s.h.RegisterUser.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisteredResponse{
		ID:      result.UserID.String(),
		Message: "check your inbox to verify your email address",
	})
}

// VerifyEmail handles GET /api/v1/auth/verify-email?token=.
func (s *Server) VerifyEmail(c echo.Context) error {
	cmd, err := commands.NewVerifyEmailCommand(c.QueryParam("token"))
	if err != nil {
		return err
	}
	if err = s.h.VerifyEmail.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "email verified"})
}

// Login handles POST /api/v1/auth/login.
func (s *Server) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewLoginCommand(req.Email, req.Password)
	if err != nil {
		return err
	}
	pair, err := s.h.Login.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTokenPairResponse(pair))
}

// Refresh handles POST /api/v1/auth/refresh.
func (s *Server) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewRefreshTokensCommand(req.RefreshToken)
	if err != nil {
		return err
	}
	pair, err := s.h.RefreshTokens.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTokenPairResponse(pair))
}

// Me handles GET /api/v1/auth/me.
func (s *Server) Me(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{
		ID:         p.ID.String(),
		Email:      p.Email,
		Role:       p.Role.String(),
		IsVerified: p.IsVerified,
	})
}

// Probe answers 200 when the role middleware admitted the caller.
func (s *Server) Probe(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "authorized as " + p.Role.String()})
}

// CreateStaffUser handles POST /api/v1/admin/users.
func (s *Server) CreateStaffUser(c echo.Context) error {
	var req NewStaffUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateStaffUserCommand(req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	id, err := s.h.CreateStaffUser.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, RegisteredResponse{ID: id.String()})
}
