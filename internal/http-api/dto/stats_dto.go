package dto

// ProfileStatsResponse is the profile page rollup. TotalPagesRead sums
// each book's current page, and EstimatedHours assumes roughly a
// minute per page.
type ProfileStatsResponse struct {
	BookCount      int64   `json:"book_count"`
	TotalPagesRead int     `json:"total_pages_read"`
	EstimatedHours float64 `json:"estimated_hours"`
	Streak         int     `json:"streak"`
}
