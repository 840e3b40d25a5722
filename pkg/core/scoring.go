package core

import (
	"math"
)

// CalculateOverallScore calculates an overall score as a weighted average of component scores
func CalculateOverallScore(scores map[string]int, weights map[string]float64) int {
	if len(scores) == 0 {
		return 0
	}

	// If no weights are provided, use equal weights
	if len(weights) == 0 {
		totalScore := 0
		for _, score := range scores {
			totalScore += score
		}
		return totalScore / len(scores)
	}

	// Calculate weighted score
	var totalScore float64
	var totalWeight float64

	for category, score := range scores {
		// Use default weight of 1.0 if not specified
		weight := 1.0
		if w, ok := weights[category]; ok {
			weight = w
		}
		totalScore += float64(score) * weight
		totalWeight += weight
	}

	// Avoid division by zero
	if totalWeight == 0 {
		return 0
	}

	return int(math.Round(totalScore / totalWeight))
}

// ThresholdScores converts raw scores to categorical scores based on thresholds
// Example thresholds: map[string][]int{"low": {0, 30}, "medium": {31, 70}, "high": {71, 100}}
func ThresholdScores(scores map[string]int, thresholds map[string][]int) map[string]string {
	result := make(map[string]string)

	for category, score := range scores {
		// Default to "unknown"
		categoryScore := "unknown"

		for name, threshold := range thresholds {
			if len(threshold) == 2 && score >= threshold[0] && score <= threshold[1] {
				categoryScore = name
				break
			}
		}

		result[category] = categoryScore
	}

	return result
}
