package handlers

import (
	"io"
	"net/http"
	"strings"

	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/models"
	"lexdesk/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UploadHandler owns the document write path. An upload is admitted against
// two quotas: one document slot and the file's size in whole megabytes of
// storage. Deletion leaves both counters to the reconciliation sweep.
type UploadHandler struct {
	db    *gorm.DB
	guard *access.Guard
	log   *logger.Logger
}

func NewUploadHandler(db *gorm.DB, guard *access.Guard) *UploadHandler {
	return &UploadHandler{
		db:    db,
		guard: guard,
		log:   logger.New("upload_handler"),
	}
}

func sizeMB(sizeBytes int64) int64 {
	const mb = 1 << 20
	return (sizeBytes + mb - 1) / mb
}

// UploadDocument handles document uploads to object storage
// @Summary Upload a document
// @Description Upload a case document; charged against the document and storage quotas
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param caseId formData string false "Case to attach the document to"
// @Success 201 {object} models.Document
// @Failure 400 {object} map[string]string "Validation error or file not found"
// @Failure 402 {object} access.Refusal "Quota exceeded"
// @Failure 403 {object} access.Refusal "Insufficient permission"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/documents/upload [post]
func (h *UploadHandler) UploadDocument(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Content-Type must be multipart/form-data",
		})
	}

	storage := GetDocumentStorage()
	if storage == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Document storage not configured",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		_ = h.log.Error("Failed to get file from request", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No file provided",
		})
	}
	if file.Size <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Empty file",
		})
	}

	actor := apimiddleware.GetActor(c)
	reqCtx := c.Request().Context()
	charge := sizeMB(file.Size)

	// One document slot plus the rounded-up storage charge, both admitted
	// before anything is written.
	tenantID, r := h.guard.CheckCreate(reqCtx, actor, models.CategoryDocuments, models.KindDocuments, 1)
	if r != nil {
		return apimiddleware.Deny(c, r)
	}
	status, err := h.guard.Quota().CheckLimit(reqCtx, tenantID, models.KindStorageMB, charge)
	if err != nil {
		_ = h.log.Error("storage quota check failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check storage quota"})
	}
	if !status.Allowed {
		return apimiddleware.Deny(c, &access.Refusal{
			Reason: access.ReasonQuotaExceeded,
			Detail: "plan limit reached for storage",
			Quota:  status,
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to open file"})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read file"})
	}

	fileContentType := file.Header.Get("Content-Type")
	if fileContentType == "" {
		fileContentType = "application/octet-stream"
	}

	path, err := storage.UploadDocument(reqCtx, tenantID, content, file.Filename, fileContentType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload document"})
	}

	document := &models.Document{
		TenantID:     tenantID,
		UploadedByID: actor.ID,
		Name:         file.Filename,
		Path:         path,
		SizeBytes:    file.Size,
		ContentType:  fileContentType,
	}
	if caseID := c.FormValue("caseId"); caseID != "" {
		document.CaseID = &caseID
	}

	if err := h.db.Create(document).Error; err != nil {
		_ = h.log.Error("Failed to insert document into database", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record document"})
	}

	h.guard.CommitCreate(reqCtx, tenantID, models.KindDocuments, 1)
	h.guard.CommitCreate(reqCtx, tenantID, models.KindStorageMB, charge)

	h.log.Success("Document uploaded: %s (%d MB charged)", path, charge)
	return c.JSON(http.StatusCreated, document)
}

// DeleteDocument removes a document and frees its quota charges.
// @Summary Delete a document
// @Description Delete a document and release its quota usage
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 204 "No content"
// @Failure 403 {object} access.Refusal "Insufficient permission or foreign firm"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/documents/{id} [delete]
func (h *UploadHandler) DeleteDocument(c echo.Context) error {
	id := c.Param("id")

	var document models.Document
	if err := h.db.Where("id = ? AND is_deleted = false", id).First(&document).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}

	actor := apimiddleware.GetActor(c)
	reqCtx := c.Request().Context()
	if r := h.guard.CheckEntity(reqCtx, actor, models.CategoryDocuments, models.ActionDelete, document.TenantID); r != nil {
		return apimiddleware.Deny(c, r)
	}

	if err := h.db.Model(&document).
		Updates(map[string]interface{}{"is_deleted": true}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete document"})
	}

	// Document and storage counters stay as-is until reconciliation recounts.
	return c.NoContent(http.StatusNoContent)
}
