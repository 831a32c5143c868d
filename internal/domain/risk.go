package domain

import "math"

// RiskLevel is a landslide risk band.
type RiskLevel string

const (
	RiskLow        RiskLevel = "LOW"
	RiskMedium     RiskLevel = "MEDIUM"
	RiskHigh       RiskLevel = "HIGH"
	RiskIncomplete RiskLevel = "INCOMPLETE"

	// Caller-level states. Classify never returns these.
	RiskNoData RiskLevel = "NO_DATA"
	RiskError  RiskLevel = "ERROR"
)

// Classification thresholds. Both comparisons are strict.
const (
	highMoistureThreshold   = 70.0
	highSlopeThreshold      = 30.0
	mediumMoistureThreshold = 50.0
	mediumSlopeThreshold    = 15.0
)

// Assessment is the derived, never-persisted result of classifying a reading.
// Color is the text color and Background the panel color it is drawn on.
type Assessment struct {
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Background  string    `json:"background"`
}

var (
	highAssessment = Assessment{
		Level:       RiskHigh,
		Description: "Critical conditions! High landslide risk from saturated soil on a steep slope.",
		Color:       "#FFFFFF",
		Background:  "#D32F2F",
	}
	mediumAssessment = Assessment{
		Level:       RiskMedium,
		Description: "Caution: moderate risk detected. Keep monitoring conditions and be ready for alerts.",
		Color:       "#212121",
		Background:  "#FFC107",
	}
	lowAssessment = Assessment{
		Level:       RiskLow,
		Description: "Favorable conditions. Landslide risk is currently considered low.",
		Color:       "#FFFFFF",
		Background:  "#388E3C",
	}
	incompleteAssessment = Assessment{
		Level:       RiskIncomplete,
		Description: "The latest measurement is incomplete or invalid.",
		Color:       "#9E9E9E",
		Background:  "#F5F5F5",
	}
	noDataAssessment = Assessment{
		Level:       RiskNoData,
		Description: "No monitoring data found. Enter a new measurement to get an assessment.",
		Color:       "#424242",
		Background:  "#E0E0E0",
	}
	errorAssessment = Assessment{
		Level:       RiskError,
		Description: "Could not load data for the assessment. Please try again later.",
		Color:       "#FFFFFF",
		Background:  "#616161",
	}
)

// Classify maps a reading to a risk band. It is total: non-finite input yields
// INCOMPLETE rather than an error.
func Classify(soilMoisture, slope float64) Assessment {
	if !isFinite(soilMoisture) || !isFinite(slope) {
		return incompleteAssessment
	}
	if soilMoisture > highMoistureThreshold && slope > highSlopeThreshold {
		return highAssessment
	}
	if soilMoisture > mediumMoistureThreshold && slope > mediumSlopeThreshold {
		return mediumAssessment
	}
	return lowAssessment
}

// ClassifyRecord classifies rec, or reports NO_DATA when there is no record.
func ClassifyRecord(rec *SensorRecord) Assessment {
	if rec == nil {
		return noDataAssessment
	}
	return Classify(rec.SoilMoisture, rec.Slope)
}

// NoDataAssessment describes an empty store.
func NoDataAssessment() Assessment { return noDataAssessment }

// ErrorAssessment describes a failed load.
func ErrorAssessment() Assessment { return errorAssessment }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
