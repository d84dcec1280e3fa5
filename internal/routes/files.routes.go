package routes

import (
	"altesse/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterFileRoutes(r gin.IRouter, files *controllers.FilesController) {
	group := r.Group("/files")
	group.POST("/dropped", files.SaveDroppedFiles)
	group.DELETE("/dropped", files.CleanupTempFiles)
	group.POST("/rename", files.Rename)
	group.POST("/duplicates/search", files.SearchDuplicates)
	group.POST("/duplicates/delete", files.DeleteDuplicates)
}
