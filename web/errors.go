package web

import (
	"io/fs"
	"net/http"
)

// ErrorHandler captures 404 and 500 responses and serves the site's
// /404.html or /500.html pages from the file system instead.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &errorResponseWriter{
			ResponseWriter: w,
			fsys:           fsys,
		}
		h.ServeHTTP(writer, r)
	})
}

type errorResponseWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	noWrite bool
	err     error
}

func (w *errorResponseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorResponseWriter) WriteHeader(statusCode int) {
	var (
		b    []byte
		err  error
		file string
	)
	if statusCode == http.StatusNotFound {
		file = "404.html"
	} else if statusCode == http.StatusInternalServerError {
		file = "500.html"
	}
	if file != "" {
		// replace the response body with the site's error page
		b, err = fs.ReadFile(w.fsys, file)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}
