package export

import (
	"classutil-backend/internal/scrapers/classutil"
	"encoding/json"
	"io"
)

type Session struct {
	CourseName    string `json:"course_name"`
	ComponentType string `json:"component_type"`
	ClassCode     string `json:"class_code"`
	Location      string `json:"location"`
}

type Record struct {
	Key      string    `json:"key"`
	Sessions []Session `json:"sessions"`
}

type JsonExporter struct{}

func NewJsonExporter() Exporter {
	return &JsonExporter{}
}

func (e *JsonExporter) Export(schedule *classutil.Schedule, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	return encoder.Encode(e.transformData(schedule))
}

// transformData keeps the key order of the schedule, which a json object
// would not.
func (e *JsonExporter) transformData(schedule *classutil.Schedule) []Record {
	result := []Record{}
	for _, entry := range schedule.Entries() {
		record := Record{Key: entry.Key, Sessions: []Session{}}
		for _, s := range entry.Sessions {
			record.Sessions = append(record.Sessions, Session{
				CourseName:    s.CourseName,
				ComponentType: string(s.ComponentType),
				ClassCode:     s.ClassCode,
				Location:      s.Location,
			})
		}
		result = append(result, record)
	}
	return result
}
