package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"superstore-dashboard/internal/analytics"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/export"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

// DataFile is the download name of the full filtered record set.
const DataFile = "Data.csv"

type ExportHandlers struct {
	api    *APIHandlers
	logger *slog.Logger
}

func NewExportHandlers(analytics *services.Analytics, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{
		api:    NewAPIHandlers(analytics, logger),
		logger: logger,
	}
}

// HandleExport serves /export/{file}, where file is "data.csv" or a summary
// name with a .csv or .xlsx extension. The filter query applies as usual.
func (h *ExportHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	file := r.PathValue("file")
	ext := strings.ToLower(path.Ext(file))
	name := strings.TrimSuffix(file, path.Ext(file))

	if ext != ".csv" && ext != ".xlsx" {
		errors.WriteError(w, h.logger, errors.NotFound("unsupported export format "+ext), requestID)
		return
	}

	d, ok := h.api.render(w, r)
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		filename    string
		contentType string
	)

	switch {
	case strings.EqualFold(name, "data") && ext == ".csv":
		filename, contentType = DataFile, export.ContentTypeCSV
		err = export.WriteRecordsCSV(&buf, d.Header, d.Records)
	default:
		s, found := d.Summary(name)
		if !found {
			errors.WriteError(w, h.logger, errors.NotFound("unknown summary "+name), requestID)
			return
		}
		filename = s.File
		if ext == ".xlsx" {
			filename = strings.TrimSuffix(s.File, ".csv") + ".xlsx"
			contentType = export.ContentTypeXLSX
			err = export.WriteXLSX(&buf, s)
		} else {
			contentType = export.ContentTypeCSV
			err = export.WriteCSV(&buf, s)
		}
	}

	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to build export"), requestID)
		return
	}

	writeDownload(w, filename, contentType, buf.Bytes())
	h.logger.Debug("export served",
		"file", filename,
		"bytes", buf.Len(),
		"rows", exportRows(name, d),
		"request_id", requestID,
	)
}

func exportRows(name string, d *analytics.Dashboard) int {
	if s, ok := d.Summary(name); ok {
		return s.Len()
	}
	return len(d.Records)
}

func writeDownload(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
