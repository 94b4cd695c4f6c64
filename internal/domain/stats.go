package domain

import "time"

// Statistics es un snapshot derivado; se recalcula en cada lectura,
// nunca se persiste.
type Statistics struct {
	TotalSessions         int               `json:"total_sessions"`
	TotalMessages         int               `json:"total_messages"`
	MessagesByRisk        map[RiskLevel]int `json:"messages_by_risk"`
	ActivityByDay         []DayActivity     `json:"activity_by_day"`
	AvgMessagesPerSession float64           `json:"avg_messages_per_session"`
}

// DayActivity agrupa mensajes por dia (UTC).
type DayActivity struct {
	Day      time.Time `json:"day"`
	Messages int       `json:"messages"`
}

// EmptyStatistics devuelve un snapshot con ceros para owners sin sesiones.
func EmptyStatistics() Statistics {
	byRisk := make(map[RiskLevel]int, len(RiskLevels))
	for _, lvl := range RiskLevels {
		byRisk[lvl] = 0
	}
	return Statistics{
		MessagesByRisk: byRisk,
		ActivityByDay:  []DayActivity{},
	}
}
