package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	exportcsv "github.com/bnema/spendshred/internal/adapters/export/csv"
	"github.com/bnema/spendshred/internal/adapters/wire"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listSubscriptions returns the collection in store order unless a filter or
// sort is requested.
func (h *Handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("filter") && !query.Has("sort") {
		subscriptions, err := h.service.List(r.Context())
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, wire.FromSubscriptions(subscriptions))
		return
	}

	filter, err := domain.ParseFilter(query.Get("filter"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	order, err := domain.ParseSortOrder(query.Get("sort"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	subscriptions, err := h.service.View(r.Context(), domain.ViewOptions{Filter: filter, Sort: order})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.FromSubscriptions(subscriptions))
}

// createSubscription stores the record with its status settled against the
// seat data. Critical and cancelled may be supplied; active and zombie are
// always derived.
func (h *Handler) createSubscription(w http.ResponseWriter, r *http.Request) {
	var payload wire.Draft
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	draft, err := payload.ToDraft()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	created, err := h.service.Import(r.Context(), draft)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, wire.FromSubscription(created))
}

// updateSubscription merges a partial patch and re-derives the status. A
// cancelled record stays cancelled.
func (h *Handler) updateSubscription(w http.ResponseWriter, r *http.Request) {
	id := domain.SubscriptionID(chi.URLParam(r, "id"))

	var payload wire.Patch
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	patch, err := payload.ToPatch()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	updated, err := h.service.Patch(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.FromSubscription(updated))
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	id := domain.SubscriptionID(chi.URLParam(r, "id"))

	cancelled, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.FromSubscription(cancelled))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.FromStats(stats))
}

func (h *Handler) exportSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.service.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var body bytes.Buffer
	if err := exportcsv.Write(&body, subscriptions); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportcsv.DefaultFileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
