// Package controller provides the HTTP handlers of the service, registered
// on gin route groups.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justaleaf/audiovault/logger"
	"github.com/justaleaf/audiovault/web/entity"
	"github.com/justaleaf/audiovault/web/service"
)

type AuthController struct {
	authService   *service.AuthService
	yandexService *service.YandexService
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService, yandexService *service.YandexService) *AuthController {
	c := &AuthController{
		authService:   authService,
		yandexService: yandexService,
	}

	g.POST("/token", c.token)
	g.GET("/auth/yandex", c.yandexAuthorize)
	g.GET("/auth/yandex/callback", c.yandexCallback)

	return c
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (a *AuthController) token(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	token, err := a.authService.Login(form.Username, form.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrBadCredentials.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.Token{AccessToken: token, TokenType: "bearer"})
}

func (a *AuthController) yandexAuthorize(c *gin.Context) {
	c.JSON(http.StatusOK, entity.AuthURL{AuthURL: a.yandexService.AuthorizeURL()})
}

func (a *AuthController) yandexCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	token, err := a.yandexService.LoginWithCode(code)
	if err != nil {
		logger.Warning("yandex login failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "yandex authorization failed"})
		return
	}

	c.JSON(http.StatusOK, entity.Token{AccessToken: token, TokenType: "bearer"})
}
