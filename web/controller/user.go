package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justaleaf/audiovault/web/entity"
	"github.com/justaleaf/audiovault/web/middleware"
	"github.com/justaleaf/audiovault/web/service"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(g *gin.RouterGroup, userService *service.UserService, authService *service.AuthService) *UserController {
	c := &UserController{userService: userService}

	users := g.Group("/users")
	{
		users.POST("/", c.create)
		users.GET("/:username", c.getByUsername)
	}

	protected := g.Group("/users")
	protected.Use(middleware.RequireAuth(authService))
	{
		protected.GET("/me", c.me)
		protected.PUT("/me", c.updateMe)
		protected.DELETE("/:id", c.delete)
	}

	return c
}

type createUserReq struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required"`
}

func (u *UserController) create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := u.userService.CreateUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (u *UserController) getByUsername(c *gin.Context) {
	user, err := u.userService.GetUserByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (u *UserController) me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

type updateUserReq struct {
	Username string `json:"username" binding:"required,min=3"`
}

func (u *UserController) updateMe(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := middleware.CurrentUser(c)
	user, err := u.userService.UpdateUsername(current.Id, req.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// delete removes an account. Users may delete themselves; superusers may
// delete anyone.
func (u *UserController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current := middleware.CurrentUser(c)
	if current.Id != id && !current.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this user"})
		return
	}

	if err := u.userService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: "user deleted"})
}
