package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/authz"
	"salescrm/internal/bulkfile"
	"salescrm/internal/services"
)

type ImportHandler struct {
	Service *services.ImportService
}

func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{Service: service}
}

// @Summary      Bulk import leads from a file
// @Description  Accepts a CSV, TXT, or XLSX file with phone numbers in the first column.
// @Tags         Leads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData  file    true   "Upload file"
// @Param        category_id   formData  int     true   "Target category"
// @Param        notify_email  formData  string  false  "Email for the import summary"
// @Success      200  {object}  services.ImportResult
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /leads/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if authz.IsReadOnly(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		return
	}

	categoryID, err := strconv.Atoi(c.PostForm("category_id"))
	if err != nil || categoryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	hint := fileHeader.Filename
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		hint = hint + " " + ct
	}

	result, err := h.Service.ImportFile(data, hint, categoryID, c.PostForm("notify_email"))
	if err != nil {
		var tooLarge *bulkfile.TooLargeError
		var tooMany *bulkfile.TooManyCandidatesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.As(err, &tooMany):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
