// Package species holds the built-in bamboo varieties loaded on first run.
package species

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bamboocare/internal/models"
)

type seed struct {
	common, scientific, description, guide string
	days                                   int
}

var seeds = []seed{
	{
		common:      "Lucky Bamboo",
		scientific:  "Dracaena sanderiana",
		description: "Not a true bamboo but a dracaena. A popular houseplant that grows in water or soil.",
		days:        7,
		guide:       "Change the water weekly if kept in a vase. In soil, keep moist but never waterlogged.",
	},
	{
		common:      "Golden Bamboo",
		scientific:  "Phyllostachys aurea",
		description: "True bamboo with golden yellow canes. Does well outdoors.",
		days:        3,
		guide:       "Water generously, especially in summer. The soil should always stay moist.",
	},
	{
		common:      "Black Bamboo",
		scientific:  "Phyllostachys nigra",
		description: "Bamboo whose canes turn black as they mature. Very ornamental.",
		days:        3,
		guide:       "Keep the soil moist. Water more often in warm weather.",
	},
	{
		common:      "Fargesia",
		scientific:  "Fargesia murielae",
		description: "Non-invasive clumping bamboo, ideal for small gardens. Cold tolerant.",
		days:        4,
		guide:       "Moderate watering. Soil should be moist but well drained.",
	},
	{
		common:      "Common Bamboo",
		scientific:  "Bambusa vulgaris",
		description: "Tropical common bamboo, fast growing and very tall.",
		days:        2,
		guide:       "Needs abundant, frequent watering, especially in hot climates.",
	},
	{
		common:      "Umbrella Bamboo",
		scientific:  "Fargesia robusta",
		description: "Compact bamboo with dense foliage, ideal for hedges and screens.",
		days:        4,
		guide:       "Water regularly and keep the soil consistently moist.",
	},
}

// Seed returns fresh copies of the six built-in species with new ids.
func Seed(now time.Time) []models.Species {
	out := make([]models.Species, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, models.Species{
			ID:                        uuid.New().String(),
			CommonName:                s.common,
			ScientificName:            s.scientific,
			Description:               s.description,
			BaseWateringFrequencyDays: s.days,
			WaterAmountGuide:          s.guide,
			CreatedAt:                 now,
		})
	}
	return out
}

// Find looks a species up by id, common name or scientific name (case-insensitive).
func Find(all []models.Species, ref string) (models.Species, bool) {
	ref = strings.TrimSpace(ref)
	for _, s := range all {
		if s.ID == ref {
			return s, true
		}
	}
	for _, s := range all {
		if strings.EqualFold(s.CommonName, ref) || strings.EqualFold(s.ScientificName, ref) {
			return s, true
		}
	}
	return models.Species{}, false
}
