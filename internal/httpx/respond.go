package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Core cuma ngomong error kind; mapping ke status code urusan shell ini.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, library.ErrInvalidInput), errors.Is(err, library.ErrInvalidPackage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, library.ErrOutOfStock),
		errors.Is(err, library.ErrAlreadyReturned),
		errors.Is(err, library.ErrAlreadyPaid),
		errors.Is(err, library.ErrAmbiguousReturn),
		errors.Is(err, library.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
