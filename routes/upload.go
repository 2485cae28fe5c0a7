package routes

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"content-ingestion-service/internal/config"
	"content-ingestion-service/internal/jobs"
	"content-ingestion-service/middleware"
	"content-ingestion-service/services"
	"content-ingestion-service/utils"

	"github.com/gin-gonic/gin"
)

// HandleUpload accepts a document upload and schedules it for background
// processing. The response carries the job id; processing state is polled
// via CheckUploadStatus.
func HandleUpload(cfg *config.Config, pipeline *services.IngestionPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithBadRequest(c, "Failed to parse upload", gin.H{"error": err.Error()})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}
		defer file.Close()

		// Authenticated requests carry the user id in the token; anonymous
		// uploads pass it as a form field.
		userID := middleware.GetUserID(c)
		if userID == "" {
			userID = c.PostForm("user_id")
		}
		if userID == "" {
			utils.RespondWithBadRequest(c, "user_id is required", nil)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize+1))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", gin.H{"error": err.Error()})
			return
		}

		jobID, err := pipeline.Submit(services.UploadRequest{
			UserID:       userID,
			FileName:     filepath.Base(header.Filename),
			CustomPrompt: c.PostForm("custom_prompt"),
			Data:         data,
		})
		if err != nil {
			var vErr *services.ValidationError
			if errors.As(err, &vErr) {
				utils.RespondWithBadRequest(c, vErr.Message, nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to accept upload", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id":   jobID,
			"status":   "processing",
			"filename": header.Filename,
		})
	}
}

// CheckUploadStatus reports the state of one ingestion job. A completed
// job is reported once and then forgotten; failed jobs stay queryable.
func CheckUploadStatus(pipeline *services.IngestionPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("jobID")

		status, err := pipeline.QueryStatus(jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				utils.RespondWithNotFound(c, "Job not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to read job status", gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{
			"job_id": jobID,
			"state":  status.State,
		}
		if status.Result != nil {
			resp["result"] = status.Result
		}
		if status.Error != "" {
			resp["error"] = status.Error
		}
		c.JSON(http.StatusOK, resp)
	}
}
