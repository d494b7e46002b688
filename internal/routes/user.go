package routes

import (
	"net/http"
	"time"

	"clinicdesk/internal/contracts"
	"clinicdesk/internal/domain/auth"
	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) issueToken(c *gin.Context, status int, entity *user.User) {
	token, err := h.JwtService.CreateToken(entity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(status, contracts.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(h.JwtService.ExpiresIn()),
	})
}

func (h *Handler) Authenticate(c *gin.Context) {
	var body contracts.LoginRequest
	if !h.bind(c, &body) {
		return
	}

	entity, err := h.AuthService.Login(c.Request.Context(), auth.Login{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusOK, entity)
}

func (h *Handler) Registration(c *gin.Context) {
	var body contracts.RegisterRequest
	if !h.bind(c, &body) {
		return
	}

	entity := &user.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	}
	if err := h.AuthService.Register(c.Request.Context(), entity); err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusCreated, entity)
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.UserService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) UpdateUserName(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.UserNameUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	if err := h.UserService.UpdateName(c.Request.Context(), userID, body.Name); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Nome atualizado com sucesso"})
}

func (h *Handler) UpdateUserPassword(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.UserPasswordUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	if err := h.UserService.UpdatePassword(c.Request.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Senha atualizada com sucesso"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	pagination := h.parsePagination(c)
	users, total, err := h.UserService.List(c.Request.Context(), pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(users, pagination.Page, pagination.Limit, total))
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var body contracts.UserRoleUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	entity, err := h.UserService.UpdateRole(c.Request.Context(), id, user.Role(body.Role))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	currentID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if currentID == id {
		h.respondError(c, appErrors.NewValidationError("id", "não é possível remover o próprio usuário"))
		return
	}

	if err := h.UserService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
