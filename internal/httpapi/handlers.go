package httpapi

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/importer"
	"github.com/alexanderramin/formdraft/internal/repository"
)

const maxImportBytes = 4 << 20

type handlers struct {
	deps Deps
	log  *zap.Logger
}

func (h *handlers) listSubmissions(c *gin.Context) {
	reg := h.deps.Services.Registry
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusOK, reg.List(c.Request.Context()))
		return
	}
	st, ok := domain.ParseStatus(status)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status: " + status})
		return
	}
	c.JSON(http.StatusOK, reg.ListByStatus(c.Request.Context(), st))
}

func (h *handlers) deleteSubmission(c *gin.Context) {
	if !h.deps.Services.Registry.Delete(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) loadSubmission(c *gin.Context) {
	rec, ok := h.deps.Services.Drafts.LoadSubmissionAsDraft(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
		return
	}
	if h.deps.Scheduler != nil {
		h.deps.Scheduler.LoadInto(rec)
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) exportSubmission(c *gin.Context) {
	res, err := h.deps.Services.Export.Export(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, "application/json", res.Data)
}

func (h *handlers) importSubmission(c *gin.Context) {
	body, err := readImportBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	rec, err := h.deps.Services.Import.Import(c.Request.Context(), body)
	if errors.Is(err, importer.ErrImportFormat) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// readImportBody accepts a multipart "file" field or a raw JSON body.
func readImportBody(c *gin.Context) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportBytes))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
}

func (h *handlers) getDraft(c *gin.Context) {
	rec, ok := h.deps.Services.Drafts.CurrentDraft(c.Request.Context())
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) saveDraft(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	rec, saved := h.deps.Services.Drafts.SaveDraft(c.Request.Context(), req.FormData, req.Name)
	if saved && h.deps.Scheduler != nil {
		h.deps.Scheduler.LoadInto(rec)
	}
	c.JSON(http.StatusOK, SaveDraftResponse{Saved: saved, Draft: rec})
}

func (h *handlers) clearDraft(c *gin.Context) {
	h.deps.Services.Drafts.ClearCurrentDraft(c.Request.Context())
	if h.deps.Scheduler != nil {
		h.deps.Scheduler.LoadInto(domain.Record{})
	}
	c.Status(http.StatusNoContent)
}

// pushForm applies a snapshot from the browser to the hosted form. The
// resulting change events reach the autosave scheduler.
func (h *handlers) pushForm(c *gin.Context) {
	if h.deps.Form == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no hosted form"})
		return
	}
	var req FormSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	if req.Title != nil {
		h.deps.Form.SetTitle(*req.Title)
	}
	if err := h.deps.Form.Patch(snapshotUpdates(req.FormData)); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func snapshotUpdates(data domain.FormData) []form.FieldUpdate {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]form.FieldUpdate, 0, len(keys))
	for _, k := range keys {
		out = append(out, form.FieldUpdate{Path: k, Value: data[k]})
	}
	return out
}

// submissionInput falls back to the hosted form when the body carries no
// form data.
func (h *handlers) submissionInput(c *gin.Context) (RecordRequest, bool) {
	var req RecordRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input: " + err.Error()})
			return req, false
		}
	}
	if req.FormData == nil && h.deps.Form != nil {
		req.FormData = h.deps.Form.Values()
		if req.Name == "" {
			req.Name = h.deps.Form.Title()
		}
	}
	if req.FormData == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "formData is required"})
		return req, false
	}
	return req, true
}

func (h *handlers) submit(c *gin.Context) {
	req, ok := h.submissionInput(c)
	if !ok {
		return
	}
	id := h.deps.Services.Drafts.SubmitForm(c.Request.Context(), req.FormData, req.Name)
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "formData has no content to save"})
		return
	}
	if h.deps.Scheduler != nil {
		h.deps.Scheduler.LoadInto(domain.Record{})
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

func (h *handlers) saveTemplate(c *gin.Context) {
	req, ok := h.submissionInput(c)
	if !ok {
		return
	}
	id := h.deps.Services.Drafts.SaveAsTemplate(c.Request.Context(), req.FormData, req.Name)
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "formData has no content to save"})
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}
