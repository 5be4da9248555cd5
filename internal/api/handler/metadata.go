package handler

import (
	"net/http"

	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/footprint"
)

// emissionUnit is the unit of every footprint figure the API returns.
const emissionUnit = "kg CO2e"

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	factors models.FactorMetadata
}

// NewMetadataHandler creates a new MetadataHandler. The table is immutable
// so its description is built once.
func NewMetadataHandler(table *footprint.FactorTable) *MetadataHandler {
	return &MetadataHandler{factors: describeFactors(table)}
}

// GetFactors handles GET /v1/metadata/factors.
func (h *MetadataHandler) GetFactors(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.factors)
}

func describeFactors(table *footprint.FactorTable) models.FactorMetadata {
	categories := footprint.Categories()
	meta := models.FactorMetadata{
		Unit:       emissionUnit,
		Categories: make([]models.CategoryFactors, 0, len(categories)),
		Bands:      bandThresholds(),
	}

	for _, c := range categories {
		specs := table.Fields(c)
		fields := make([]models.FieldFactor, len(specs))
		for i, s := range specs {
			fields[i] = models.FieldFactor{
				Field:  s.Field,
				Factor: s.Factor,
				Min:    s.Min,
				Max:    s.Max,
			}
		}
		meta.Categories = append(meta.Categories, models.CategoryFactors{
			Category: string(c),
			Fields:   fields,
		})
	}
	return meta
}

func bandThresholds() []models.BandThreshold {
	upper := func(v float64) *float64 { return &v }
	return []models.BandThreshold{
		{Band: string(footprint.BandExcellent), MinTotal: 0, MaxTotal: upper(footprint.GoodThreshold)},
		{Band: string(footprint.BandGood), MinTotal: footprint.GoodThreshold, MaxTotal: upper(footprint.ModerateThreshold)},
		{Band: string(footprint.BandModerate), MinTotal: footprint.ModerateThreshold, MaxTotal: upper(footprint.HighThreshold)},
		{Band: string(footprint.BandHigh), MinTotal: footprint.HighThreshold},
	}
}
