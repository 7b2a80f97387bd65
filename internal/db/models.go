package db

type ScrapeRun struct {
	ID        int64
	ScrapedAt int64
	RootUrl   string
	Term      string
	Campus    int64
	GroupBy   string
}

type Session struct {
	RunID         int64
	Position      int64
	GroupKey      string
	CourseName    string
	ComponentType string
	ClassCode     string
	Location      string
}
