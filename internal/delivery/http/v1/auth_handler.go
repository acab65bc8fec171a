package v1

import (
	"net/http"
	"time"

	"skillmates-backend/internal/delivery/http/middleware"
	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC        domain.AuthUsecase
	secureCookies bool
}

func NewAuthHandler(public, protected *gin.RouterGroup, authLimit gin.HandlerFunc, authUC domain.AuthUsecase, secureCookies bool) {
	handler := &AuthHandler{authUC: authUC, secureCookies: secureCookies}

	publicAuth := public.Group("/auth")
	publicAuth.Use(authLimit)
	{
		publicAuth.POST("/signup", handler.Signup)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/logout", handler.Logout)
	}

	protected.GET("/auth/me", handler.Me)
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a user with an empty profile and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignupRequest  true  "Account details"
// @Success      201      {object}  response.Response{data=domain.AuthResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.authUC.Signup(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}

	h.setSession(c, result.Token, result.ExpiresAt)
	response.Success(c, http.StatusCreated, "Account created", result)
}

// Login godoc
// @Summary      Log in
// @Description  Accepts a username or email. Repeated failures block the identifier for a while.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}

	h.setSession(c, result.Token, result.ExpiresAt)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the session cookies. Bearer tokens simply expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(middleware.CSRFTokenCookieName, "", -1, "/", "", h.secureCookies, false)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User details", user)
}

func (h *AuthHandler) setSession(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", h.secureCookies, true)
	middleware.IssueCSRFCookie(c, h.secureCookies)
}

func clientMeta(c *gin.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
	}
}
