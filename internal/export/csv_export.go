package export

import (
	"classutil-backend/internal/scrapers/classutil"
	"io"

	"github.com/gocarina/gocsv"
)

// SessionRow is one record of the schedule flattened with its key.
type SessionRow struct {
	Key           string `csv:"Key"`
	CourseName    string `csv:"Course Name"`
	ComponentType string `csv:"Component"`
	ClassCode     string `csv:"Class"`
	Location      string `csv:"Location"`
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(schedule *classutil.Schedule, w io.Writer) error {
	rows := e.transformData(schedule)
	return gocsv.Marshal(&rows, w)
}

func (e *CSVExporter) transformData(schedule *classutil.Schedule) []SessionRow {
	rows := []SessionRow{}
	for _, entry := range schedule.Entries() {
		for _, record := range entry.Sessions {
			rows = append(rows, SessionRow{
				Key:           entry.Key,
				CourseName:    record.CourseName,
				ComponentType: string(record.ComponentType),
				ClassCode:     record.ClassCode,
				Location:      record.Location,
			})
		}
	}
	return rows
}
