package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/adapters"
	"github.com/softservesoftware/stig-bee/pkg/models/api"
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/config"
	"github.com/softservesoftware/stig-bee/pkg/services/query"
	"github.com/softservesoftware/stig-bee/pkg/services/review"
)

const (
	uploadField      = "file"
	multipartMemory  = 8 << 20
	defaultMaxUpload = 32 << 20
	groupBySeverity  = "severity"
)

type Handler struct {
	reviews  review.Service
	profiles config.Registry
	maxBytes int64
}

// NewHandler serves review sessions. profiles may be nil when no asset
// profile file is configured.
func NewHandler(reviews review.Service, profiles config.Registry, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUpload
	}
	return &Handler{
		reviews:  reviews,
		profiles: profiles,
		maxBytes: maxBytes,
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, api.Error{
				Error: fmt.Sprintf("upload exceeds %d bytes", h.maxBytes),
				Kind:  domain.KindUnsupportedFile.String(),
			})
			return
		}
		writeError(w, r, domain.InvalidArgument("multipart field %q is required", uploadField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	sess, err := h.reviews.Open(ctx, header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapDomainSessionToAPI(sess))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainSessionToAPI(sess))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFindings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := query.ParseOptions(q.Get("search"), q.Get("severity"), q.Get("status"), q.Get("sort"), q.Get("order"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	group := q.Get("group")
	if group != "" && group != groupBySeverity {
		writeError(w, r, domain.InvalidArgument("unsupported group %q", group))
		return
	}

	sess, err := h.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	findings := query.Apply(sess.Findings(), opts)
	response := api.FindingList{Total: len(findings)}
	if group == groupBySeverity {
		response.Groups = adapters.MapQueryGroupsToAPI(query.GroupBySeverity(findings))
	} else {
		response.Findings = adapters.MapDomainFindingsToAPI(findings)
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetFinding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	findingID := chi.URLParam(r, "findingId")

	sess, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, ok := sess.Assessment.Finding(findingID)
	if !ok {
		writeError(w, r, domain.NotFound("finding %q in assessment %q", findingID, id))
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainFindingToAPI(sess.Annotations.Apply(f)))
}

func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	var req api.AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.InvalidArgument("invalid annotation body: %v", err))
		return
	}
	ann, err := adapters.MapAPIAnnotationToDomain(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := h.reviews.Annotate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "findingId"), ann)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainFindingToAPI(f))
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	sess, err := h.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainStatisticsToAPI(domain.Summarize(sess.Findings())))
}

func (h *Handler) SetAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.InvalidArgument("invalid asset body: %v", err))
		return
	}

	var asset domain.Asset
	switch {
	case req.Profile != "" && req.Asset != nil:
		writeError(w, r, domain.InvalidArgument("set either profile or asset, not both"))
		return
	case req.Profile != "":
		if h.profiles == nil {
			writeError(w, r, domain.InvalidArgument("no asset profiles are configured"))
			return
		}
		var err error
		asset, err = h.profiles.GetAsset(ctx, req.Profile)
		if err != nil {
			writeError(w, r, err)
			return
		}
	case req.Asset != nil:
		asset = domain.Asset(*req.Asset)
	default:
		writeError(w, r, domain.InvalidArgument("profile or asset is required"))
		return
	}

	sess, err := h.reviews.SetAsset(ctx, chi.URLParam(r, "id"), asset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainSessionToAPI(sess))
}

func (h *Handler) Checklist(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.reviews.Checklist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to write checklist")
	}
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeJSON(w, r, http.StatusOK, []api.AssetProfile{})
		return
	}
	profiles, err := h.profiles.GetProfiles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainProfilesToAPI(profiles))
}
