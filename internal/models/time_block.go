package models

// TimeBlock is a recurring weekly slot. Times are stored as HH:MM[:SS].
type TimeBlock struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Active    bool   `db:"active" json:"active"`
}
