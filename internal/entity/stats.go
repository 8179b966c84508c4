package entity

// StatusCounts is the per-status tally for one owner. Every status is always present.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Interview int `json:"interview"`
	Declined  int `json:"declined"`
}

// MonthlyApplications is one chart bucket, labelled like "Jan 24".
type MonthlyApplications struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
