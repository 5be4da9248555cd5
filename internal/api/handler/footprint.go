package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/footprint"
)

// FootprintHandler handles footprint computation, history, and statistics.
type FootprintHandler struct {
	service *footprint.Service
	log     zerolog.Logger
}

// NewFootprintHandler creates a new FootprintHandler.
func NewFootprintHandler(service *footprint.Service, log zerolog.Logger) *FootprintHandler {
	return &FootprintHandler{service: service, log: log}
}

// Compute handles POST /v1/footprints:compute. Nothing is stored.
func (h *FootprintHandler) Compute(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readInputs(w, r)
	if !ok {
		return
	}

	rec, err := h.service.ComputeAndRecommend(raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toFootprintRecord(rec))
}

// Submit handles POST /v1/me/footprints.
func (h *FootprintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readInputs(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Submit(r.Context(), GetUserID(r.Context()), raw)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Created(w, r, "/v1/me/footprints/"+rec.ID, toFootprintRecord(rec))
}

// History handles GET /v1/me/footprints.
func (h *FootprintHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.History(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	items := make([]models.FootprintRecord, len(records))
	for i, rec := range records {
		items[i] = toFootprintRecord(rec)
	}
	response.JSON(w, r, http.StatusOK, models.FootprintHistory{
		Items: items,
		Meta:  models.ListMeta{Count: len(items)},
	})
}

// Get handles GET /v1/me/footprints/{recordId}.
func (h *FootprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "recordId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toFootprintRecord(rec))
}

// PersonalStats handles GET /v1/me/footprints/stats.
func (h *FootprintHandler) PersonalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetPersonalStats(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPersonalStats(stats))
}

// Analytics handles GET /v1/me/analytics.
func (h *FootprintHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.GetAnalytics(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.Analytics{
		Personal:  toPersonalStats(analytics.Personal),
		Community: toCommunityStats(analytics.Community),
		Comparison: models.Comparison{
			UserAverage:      analytics.Comparison.UserAverage,
			CommunityAverage: analytics.Comparison.CommunityAverage,
			Difference:       analytics.Comparison.Difference,
		},
	})
}

// CommunityStats handles GET /v1/community/stats.
func (h *FootprintHandler) CommunityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetCommunityStats(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toCommunityStats(stats))
}

// readInputs decodes and type-checks the request inputs. It writes the error
// response itself and reports false on failure.
func (h *FootprintHandler) readInputs(w http.ResponseWriter, r *http.Request) (footprint.RawInputs, bool) {
	var req models.FootprintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return nil, false
	}

	raw, err := footprint.ParseInputs(req.Inputs)
	if err != nil {
		writeError(w, r, h.log, err)
		return nil, false
	}
	return raw, true
}

func toBreakdown(t footprint.CategoryTotals) models.CategoryBreakdown {
	return models.CategoryBreakdown{
		Transport:   t[footprint.CategoryTransport],
		Energy:      t[footprint.CategoryEnergy],
		Food:        t[footprint.CategoryFood],
		Consumption: t[footprint.CategoryConsumption],
	}
}

func toFootprintRecord(rec *footprint.Record) models.FootprintRecord {
	out := models.FootprintRecord{
		ID:              rec.ID,
		TotalFootprint:  rec.TotalFootprint,
		Band:            string(rec.Band()),
		Categories:      toBreakdown(rec.Categories),
		Recommendations: rec.Recommendations,
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if !rec.CreatedAt.IsZero() {
		ts := models.Timestamp(rec.CreatedAt)
		out.CreatedAt = &ts
	}
	return out
}

func toPersonalStats(stats *footprint.PersonalStats) models.PersonalStats {
	out := models.PersonalStats{
		AverageFootprint:  stats.Average,
		TotalCalculations: stats.Count,
		Trend:             make([]models.TrendPoint, len(stats.Trend)),
		Distribution:      make([]models.CategoryShare, len(stats.Distribution)),
	}
	if stats.Latest != nil {
		latest := toFootprintRecord(stats.Latest)
		out.Latest = &latest
	}
	for i, p := range stats.Trend {
		out.Trend[i] = models.TrendPoint{
			Date:       p.Date,
			RecordedAt: models.Timestamp(p.RecordedAt),
			Total:      p.Total,
			Categories: toBreakdown(p.Categories),
		}
	}
	for i, s := range stats.Distribution {
		out.Distribution[i] = models.CategoryShare{
			Category: string(s.Category),
			Total:    s.Total,
			Share:    s.Share,
		}
	}
	return out
}

func toCommunityStats(stats *footprint.CommunityStats) models.CommunityStats {
	return models.CommunityStats{
		AverageFootprint:  stats.AverageFootprint,
		TotalCalculations: stats.TotalCalculations,
	}
}
