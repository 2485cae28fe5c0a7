package routes

import (
	"errors"
	"net/http"

	"content-ingestion-service/middleware"
	"content-ingestion-service/services"
	"content-ingestion-service/utils"

	"github.com/gin-gonic/gin"
)

// ListContent returns the summaries of a user's processed documents,
// newest first.
func ListContent(pipeline *services.IngestionPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			userID = c.Query("user_id")
		}
		if userID == "" {
			utils.RespondWithBadRequest(c, "user_id is required", nil)
			return
		}

		files, err := pipeline.ListContents(c.Request.Context(), userID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list files", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"files": files,
			"count": len(files),
		})
	}
}

// ListContentChunks returns the chunk summaries for one content record.
func ListContentChunks(pipeline *services.IngestionPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentID := c.Param("contentID")

		chunks, err := pipeline.ListChunks(c.Request.Context(), contentID)
		if err != nil {
			if errors.Is(err, services.ErrContentNotFound) {
				utils.RespondWithNotFound(c, "Content not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to list chunks", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"content_id": contentID,
			"chunks":     chunks,
			"count":      len(chunks),
		})
	}
}
