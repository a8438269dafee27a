package domain

// Event is an estate sale event hosted at a single location over a date range.
type Event struct {
	EventID     int64  `db:"eventID" json:"eventID"`
	Title       string `db:"title" json:"title"`
	StartDate   string `db:"startDate" json:"startDate"`
	EndDate     string `db:"endDate" json:"endDate"`
	Location    string `db:"location" json:"location"`
	Description string `db:"description" json:"description"`
}
