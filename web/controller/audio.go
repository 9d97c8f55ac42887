package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justaleaf/audiovault/logger"
	"github.com/justaleaf/audiovault/web/entity"
	"github.com/justaleaf/audiovault/web/middleware"
	"github.com/justaleaf/audiovault/web/service"
)

type AudioController struct {
	audioService *service.AudioService
}

func NewAudioController(g *gin.RouterGroup, audioService *service.AudioService, authService *service.AuthService) *AudioController {
	c := &AudioController{audioService: audioService}

	audio := g.Group("/audio")
	{
		audio.GET("/", c.list)
		audio.DELETE("/:id", c.delete)
	}

	protected := g.Group("/audio")
	protected.Use(middleware.RequireAuth(authService))
	{
		protected.POST("/", c.upload)
	}

	return c
}

// upload validates the declared content type against the allow-list before
// any persistence, then creates the record and streams the bytes to its
// path. The owner is always the authenticated caller.
func (a *AudioController) upload(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !service.IsAllowedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported audio content type"})
		return
	}

	owner := middleware.CurrentUser(c)
	audio, err := a.audioService.CreateAudioFile(title, owner.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	if err := a.audioService.SaveUpload(audio, src); err != nil {
		logger.Error("save upload:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, audio)
}

func (a *AudioController) list(c *gin.Context) {
	ownerId, err := strconv.Atoi(c.Query("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id required"})
		return
	}

	files, err := a.audioService.ListByOwner(ownerId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (a *AudioController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ownerId, err := strconv.Atoi(c.Query("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id required"})
		return
	}

	if err := a.audioService.DeleteAudioFile(id, ownerId); err != nil {
		if errors.Is(err, service.ErrAudioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: "audio file deleted"})
}
