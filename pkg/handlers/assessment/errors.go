package assessment

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/models/api"
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

// StatusCode maps an error onto the HTTP status returned for it.
func StatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindMalformedDocument, domain.KindUnrecognizedDocumentShape, domain.KindIncompleteDocument:
		return http.StatusUnprocessableEntity
	case domain.KindUnsupportedFile, domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	logger := zerolog.Ctx(r.Context())

	body := api.Error{Error: err.Error(), Kind: domain.KindOf(err).String()}
	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("kind", body.Kind).
			Msg("request failed")
		body.Error = http.StatusText(status)
	} else {
		logger.Debug().
			Err(err).
			Int("status", status).
			Msg("request rejected")
	}
	writeJSON(w, r, status, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
