package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialcore/internal/adapters/httpapi/middleware"
	"socialcore/internal/core/account"
	accountPort "socialcore/internal/ports/account"
)

type AccountController struct {
	uc       AccountUseCase
	sessions *middleware.Sessions
}

func NewAccountController(uc AccountUseCase, sessions *middleware.Sessions) *AccountController {
	return &AccountController{uc: uc, sessions: sessions}
}

func (ctl *AccountController) Register(c *gin.Context) {
	var req account.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	acc, err := ctl.uc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusCreated, accountPort.ToDTO(acc))
}

func (ctl *AccountController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	acc, err := ctl.uc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, account.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email/password combination"})
		return
	}
	if err != nil {
		writeError(c, err, http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := ctl.sessions.Issue(acc)
	if err != nil {
		writeError(c, err, http.StatusUnauthorized)
		return
	}
	ctl.sessions.SetCookie(c, token)
	c.JSON(http.StatusOK, accountPort.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Account:   accountPort.ToDTO(acc),
	})
}

func (ctl *AccountController) Logout(c *gin.Context) {
	ctl.sessions.ClearCookie(c)
	c.Status(http.StatusNoContent)
}

func (ctl *AccountController) Show(c *gin.Context) {
	acc, err := ctl.uc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, accountPort.ToDTO(acc))
}

func (ctl *AccountController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	acc, err := ctl.uc.FindByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, accountPort.ToDTO(acc))
}

func (ctl *AccountController) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req account.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	acc, err := ctl.uc.UpdateAccount(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, accountPort.ToDTO(acc))
}

func (ctl *AccountController) Destroy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctl.uc.DestroyAccount(c.Request.Context(), userID); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	ctl.sessions.ClearCookie(c)
	c.Status(http.StatusNoContent)
}
