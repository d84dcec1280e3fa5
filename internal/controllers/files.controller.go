package controllers

import (
	"log/slog"
	"net/http"

	"altesse/internal/models"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
)

type FilesController struct {
	files *services.FileService
	log   *slog.Logger
}

func NewFilesController(files *services.FileService, log *slog.Logger) *FilesController {
	return &FilesController{
		files: files,
		log:   log.With(slog.String("item", "FilesController")),
	}
}

// SaveDroppedFiles stores dropped files in the temp directory
func (f *FilesController) SaveDroppedFiles(c *gin.Context) {
	files, err := hydrateBody(c, models.NewFileDataListFrom)
	if err != nil {
		respondError(c, f.log, err)
		return
	}

	paths, err := f.files.SaveDroppedFiles(files)
	if err != nil {
		respondError(c, f.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paths": paths})
}

func (f *FilesController) CleanupTempFiles(c *gin.Context) {
	if err := f.files.CleanupTempFiles(); err != nil {
		respondError(c, f.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (f *FilesController) Rename(c *gin.Context) {
	req, err := hydrateBody(c, models.NewRenameRequestFrom)
	if err != nil {
		respondError(c, f.log, err)
		return
	}

	if err := f.files.Rename(req.Paths, req.Options); err != nil {
		respondError(c, f.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchDuplicates returns groups of files with identical content
func (f *FilesController) SearchDuplicates(c *gin.Context) {
	search, err := hydrateBody(c, models.NewDuplicateSearchFrom)
	if err != nil {
		respondError(c, f.log, err)
		return
	}
	if search.Root == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "root is required"})
		return
	}

	groups, err := f.files.FindDuplicates(c.Request.Context(), search.Root)
	if err != nil {
		respondError(c, f.log, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// DeleteDuplicates keeps the first file of each group and removes the rest
func (f *FilesController) DeleteDuplicates(c *gin.Context) {
	groups, err := hydrateBody(c, models.NewDuplicateGroupsFrom)
	if err != nil {
		respondError(c, f.log, err)
		return
	}

	deleted, err := f.files.DeleteDuplicates(c.Request.Context(), groups)
	if err != nil {
		respondError(c, f.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
