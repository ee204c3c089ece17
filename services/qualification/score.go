package qualificationService

import (
	"math"

	"loyalty/models"

	"github.com/samber/lo"
)

const (
	MinScore = 0
	MaxScore = 5
)

// Clamp bounds a score to [MinScore, MaxScore]. NaN becomes MinScore.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return MinScore
	}
	return math.Min(math.Max(score, MinScore), MaxScore)
}

// Averages summarizes the qualifications of one company
type Averages struct {
	Count               int                                     `json:"count"`
	AverageGeneralScore float64                                 `json:"averageGeneralScore"`
	AverageQualityScore float64                                 `json:"averageQualityScore"`
	AverageCalification map[models.CalificationCategory]float64 `json:"averageCalificationScores"`
}

// ComputeAverages returns false for an empty slice. A record lacking a
// category contributes 0 to that category's mean.
func ComputeAverages(qualifications []models.Qualification) (Averages, bool) {
	if len(qualifications) == 0 {
		return Averages{}, false
	}

	byCategory := make(map[models.CalificationCategory]float64, len(models.CalificationCategories))
	for _, category := range models.CalificationCategories {
		byCategory[category] = lo.MeanBy(qualifications, func(q models.Qualification) float64 {
			if c := q.Calification(category); c != nil {
				return c.Score
			}
			return 0
		})
	}

	return Averages{
		Count: len(qualifications),
		AverageGeneralScore: lo.MeanBy(qualifications, func(q models.Qualification) float64 {
			return q.GeneralScore
		}),
		AverageQualityScore: byCategory[models.CategoryQuality],
		AverageCalification: byCategory,
	}, true
}
