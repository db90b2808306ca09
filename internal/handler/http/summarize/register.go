package summarize

import "net/http"

// Register mounts the summarize endpoint on mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /summarize", Handler{Svc: svc})
}
