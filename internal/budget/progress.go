package budget

// AlertLevel classifies how close spending is to the limit.
type AlertLevel string

const (
	AlertOK       AlertLevel = "ok"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

const (
	WarningThreshold  = 75.0
	CriticalThreshold = 90.0
)

type Progress struct {
	Percentage float64 // 0..100
	Remaining  int64   // Cents, never negative
	Level      AlertLevel
	Exceeded   bool // spent >= limit
}

// Evaluate derives progress from spent and limit, both in cents. A limit of
// zero or less yields 0%.
func Evaluate(spent, limit int64) Progress {
	var pct float64
	if limit > 0 {
		pct = float64(spent) * 100 / float64(limit)
	}

	pct = min(max(pct, 0), 100)

	return Progress{
		Percentage: pct,
		Remaining:  max(limit-spent, 0),
		Level:      levelFor(pct),
		Exceeded:   spent >= limit,
	}
}

func levelFor(pct float64) AlertLevel {
	switch {
	case pct >= CriticalThreshold:
		return AlertCritical
	case pct >= WarningThreshold:
		return AlertWarning
	default:
		return AlertOK
	}
}
