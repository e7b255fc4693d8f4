package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sanctuarysound/api/internal/middleware"
	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/service"
	"github.com/sanctuarysound/api/internal/snapshot"
	"github.com/sanctuarysound/api/pkg/response"
)

const maxSnapshotSize = 2 * 1024 * 1024 // 2MB

type SnapshotHandler struct {
	service *service.SnapshotService
}

func NewSnapshotHandler(svc *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: svc}
}

// Import handles POST /api/snapshots/import (multipart: console, file)
func (h *SnapshotHandler) Import(c *fiber.Ctx) error {
	console := model.ConsoleModel(strings.TrimSpace(c.FormValue("console")))
	if console == "" {
		console = model.ConsoleGeneric
	}
	if !console.Known() {
		return response.ValidationError(c, "Unknown console", map[string]interface{}{
			"console": console,
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}

	if file.Size > maxSnapshotSize {
		return response.ValidationError(c, "File size exceeds 2MB limit", map[string]interface{}{
			"maxSize":  maxSnapshotSize,
			"fileSize": file.Size,
		})
	}

	contentType := file.Header.Get("Content-Type")
	validTypes := map[string]bool{
		"text/csv":                 true,
		"text/plain":               true,
		"application/csv":          true,
		"application/vnd.ms-excel": true,
		"application/octet-stream": true,
		"":                         true,
	}
	if !validTypes[contentType] {
		return response.BadRequest(c, response.CodeInvalidFile, "Snapshot must be a CSV file")
	}

	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}

	owner := middleware.GetTeamID(c)
	if owner == "" {
		owner = middleware.GetOperatorID(c)
	}

	result, err := h.service.Import(c.UserContext(), owner, console, data)
	if err != nil {
		msg := "Snapshot could not be read"
		if errors.Is(err, snapshot.ErrEmpty) || errors.Is(err, snapshot.ErrNoHeader) {
			msg = err.Error()
		}
		return response.BadRequest(c, response.CodeInvalidFile, msg)
	}
	return response.Created(c, result)
}
