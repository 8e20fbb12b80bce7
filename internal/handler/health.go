package handler

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HandleHealth handles GET /health. Liveness only: it does not touch the
// database.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Service: "record-crate"})
}

// HandleNotFound is the router's fallback for unmatched paths, keeping the
// error body shape consistent with the rest of the API.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "route not found"})
}
