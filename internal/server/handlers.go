package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/export"
)

const (
	formField     = "dataset"
	multipartMem  = 32 << 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errNoUpload = errors.New("no dataset uploaded")

// upload is the dataset file of a request, if one was sent.
type upload struct {
	name string
	file multipart.File
}

func (u *upload) reader() io.Reader {
	if u == nil {
		return nil
	}
	return u.file
}

func (u *upload) filename() string {
	if u == nil {
		return ""
	}
	return u.name
}

func (u *upload) Close() {
	if u != nil {
		_ = u.file.Close()
	}
}

// readUpload returns the posted dataset, nil when the form carries no file,
// or an HTTP status with the reason the form could not be read.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMem); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.opt.MaxUploadBytes>>20)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("read form: %w", err)
	}
	f, hdr, err := r.FormFile(formField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("read %s: %w", formField, err)
	}
	return &upload{name: filepath.Base(hdr.Filename), file: f}, 0, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, s.pages.Render(r.Context(), "", nil))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, status, err := s.readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	defer up.Close()
	s.writePage(w, s.pages.Render(r.Context(), up.filename(), up.reader()))
}

func (s *Server) writePage(w http.ResponseWriter, p *dashboard.Page) {
	var buf bytes.Buffer
	err := tmplPage.ExecuteTemplate(&buf, "base", view{Page: p, Form: true, MaxUploadMB: s.opt.MaxUploadBytes >> 20})
	if err != nil {
		s.log.Error("template error", zap.String("report_id", p.ID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	up, status, err := s.readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	if up == nil {
		http.Error(w, errNoUpload.Error(), http.StatusBadRequest)
		return
	}
	defer up.Close()
	p := s.pages.Render(r.Context(), up.filename(), up.reader())
	if p.ParseFailed() {
		http.Error(w, p.ErrorMessage(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := export.Workbook(p, &buf); err != nil {
		msg := err.Error()
		if p.Err != nil {
			msg = p.ErrorMessage()
		}
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	base := strings.TrimSuffix(up.filename(), filepath.Ext(up.filename()))
	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".xlsx"))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	up, status, err := s.readUpload(w, r)
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	if up == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errNoUpload.Error()})
		return
	}
	defer up.Close()
	p := s.tables.Render(r.Context(), up.filename(), up.reader())
	status = http.StatusOK
	switch {
	case p.ParseFailed():
		status = http.StatusBadRequest
	case p.Err != nil:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, p.Summary())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
