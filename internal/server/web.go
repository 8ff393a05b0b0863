package server

import (
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/pipeline"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData feeds the web form template. EncodedImage is a template.URL
// because html/template rejects data: URLs in plain string context.
type pageData struct {
	EncodedImage template.URL // data: URL with the inline PNG
	DecodedText  string
	DecodedHash  string
	EncodeError  string
	DecodeError  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, pageData{})
}

// handleForm handles both form modes, mirroring the JSON API semantics: an
// encode failure shows an error instead of a partial image, a decode failure
// shows the untrusted stored hash when one was recovered.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.renderPage(w, pageData{DecodeError: "invalid form submission"})
		return
	}

	var page pageData
	switch r.FormValue("mode") {
	case "encode":
		page = s.formEncode(r)
	case "decode":
		page = s.formDecode(r)
	}
	s.renderPage(w, page)
}

func (s *Server) formEncode(r *http.Request) pageData {
	opts := pipeline.Options{
		ChunkSize:  s.cfg.ChunkSize,
		Passphrase: strings.TrimSpace(r.FormValue("passphrase")),
	}
	if v := strings.TrimSpace(r.FormValue("chunk_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pageData{EncodeError: "chunk size must be a number"}
		}
		opts.ChunkSize = n
	}

	data, err := s.runner.Encode(r.Context(), r.FormValue("data"), opts)
	if err != nil {
		return pageData{EncodeError: qrerrors.UserMessage(err)}
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	return pageData{EncodedImage: template.URL(uri)}
}

func (s *Server) formDecode(r *http.Request) pageData {
	file, _, err := r.FormFile("file")
	if err != nil {
		return pageData{DecodeError: "please upload a QR image"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes()))
	if err != nil {
		return pageData{DecodeError: "could not read upload"}
	}

	res, err := s.runner.Decode(r.Context(), data, strings.TrimSpace(r.FormValue("passphrase")))
	if err != nil {
		page := pageData{DecodeError: qrerrors.UserMessage(err)}
		var integrity *qrerrors.IntegrityError
		if errors.As(err, &integrity) {
			page.DecodedHash = integrity.StoredHash
		}
		return page
	}
	return pageData{DecodedText: res.Text, DecodedHash: res.SHA256}
}

func (s *Server) renderPage(w http.ResponseWriter, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		s.logger.Error("render page", "err", err)
	}
}
