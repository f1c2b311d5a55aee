package models

// AdjustmentKind is the direction of a weather-driven schedule change.
type AdjustmentKind string

const (
	AdjustmentNormal     AdjustmentKind = "normal"
	AdjustmentPostpone   AdjustmentKind = "postpone"
	AdjustmentAccelerate AdjustmentKind = "accelerate"
)

// WateringAdjustment is the transient output of the weather engine.
type WateringAdjustment struct {
	Kind          AdjustmentKind `json:"kind"`
	Reason        string         `json:"reason"`
	MagnitudeDays int            `json:"magnitude_days"`
}

// Normal returns an adjustment that leaves the schedule untouched.
func Normal(reason string) WateringAdjustment {
	return WateringAdjustment{Kind: AdjustmentNormal, Reason: reason}
}

// ShiftDays returns the signed number of days the adjustment moves the schedule.
func (a WateringAdjustment) ShiftDays() int {
	switch a.Kind {
	case AdjustmentPostpone:
		return a.MagnitudeDays
	case AdjustmentAccelerate:
		return -a.MagnitudeDays
	default:
		return 0
	}
}
