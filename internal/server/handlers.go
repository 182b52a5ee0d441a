package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rokuserve/internal/logging"
)

var contentTypes = map[string]string{
	".mp4": "video/mp4",
	".mkv": "video/x-matroska",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFeed returns the persisted document verbatim. A missing or unreadable
// file is a server error; the process itself keeps running.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.Paths.FeedPath)
	if err != nil {
		s.logger.Error("feed unavailable", logging.String("path", s.cfg.Paths.FeedPath), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "error loading JSON feed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/stream/")
	path, err := s.resolveVideo(name)
	if err != nil {
		// Never reveal the resolved path.
		s.logger.Warn("stream rejected", logging.String("name", name), logging.Error(err))
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}
	size := info.Size()

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		contentType = "application/octet-stream"
	}

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		s.copyFileRange(w, r, path, 0, size)
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
		s.writeError(w, http.StatusRequestedRangeNotSatisfiable, "range not satisfiable")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Range", "bytes "+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end, 10)+"/"+strconv.FormatInt(size, 10))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return
	}
	s.copyFileRange(w, r, path, start, end-start+1)
}

// resolveVideo maps a decoded path segment to a file strictly inside the
// videos root. Anything that would escape the root resolves to an error the
// handler reports as 404.
func (s *Server) resolveVideo(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", errors.New("empty or reserved name")
	}
	// The mux hands us a decoded path, so traversal attempts such as an
	// encoded ../ show up as a path separator here.
	if strings.ContainsAny(name, "/\\") {
		return "", errors.New("path separator in name")
	}

	root := s.cfg.Paths.VideosDir
	path := filepath.Join(root, name)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("name escapes videos root")
	}
	return path, nil
}

// copyFileRange streams length bytes starting at offset using a bounded
// buffer, so memory use is independent of file size.
func (s *Server) copyFileRange(w http.ResponseWriter, r *http.Request, path string, offset, length int64) {
	file, err := os.Open(path)
	if err != nil {
		s.logger.Error("open video failed", logging.Error(err))
		return
	}
	defer file.Close()

	if offset > 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			s.logger.Error("seek video failed", logging.Error(err))
			return
		}
	}

	buf := make([]byte, s.cfg.Server.StreamChunkKiB*1024)
	if _, err := io.CopyBuffer(w, io.LimitReader(file, length), buf); err != nil {
		// Usually the client going away mid-stream.
		s.logger.Debug("stream interrupted",
			logging.String("path", r.URL.Path),
			logging.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
