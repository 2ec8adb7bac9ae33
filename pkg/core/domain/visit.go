package domain

import "time"

// VisitLog records one observed visit. Duplicate rows for the same IP and
// date are allowed; counting deduplicates.
type VisitLog struct {
	ID        string    `json:"id"`
	VisitorIP string    `json:"visitor_ip"`
	VisitDate string    `json:"visit_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// VisitorStats holds distinct-IP counts.
type VisitorStats struct {
	TodayVisitors int64 `json:"today_visitor"`
	TotalVisitors int64 `json:"total_visitor"`
}
