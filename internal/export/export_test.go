package export

import (
	"bytes"
	"classutil-backend/internal/scrapers/classutil"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testSchedule() *classutil.Schedule {
	schedule := classutil.NewSchedule(nil)
	schedule.AddSession(
		classutil.CourseIdentity{Name: "Business Analytics for Accountants", Code: "ACCT3610"},
		classutil.SessionRow{"LEC", "A", "6001", "In Person", "Full", "200/200", "100%", "Mon 11-14 (w1-6, BUS 105); Mon 11-14 (w7-9,10-12, PioneerTh)"},
	)
	schedule.AddSession(
		classutil.CourseIdentity{Name: "Mathematics 1A", Code: "MATH1131"},
		classutil.SessionRow{"TLB", "L01", "7002", "In Person", "Open", "40/50", "80%", "Fri 13-16 (w1-10, SEB B25)"},
	)
	return schedule
}

func TestCSVExporter(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, NewCSVExporter().Export(testSchedule(), &buf))

	var rows []SessionRow
	require.NoError(t, gocsv.Unmarshal(bytes.NewReader(buf.Bytes()), &rows))

	expected := []SessionRow{
		{
			Key:           "ACCT3610",
			CourseName:    "Business Analytics for Accountants",
			ComponentType: "LEC",
			ClassCode:     "A",
			Location:      "Mon 11-14 (w1-6, BUS 105); Mon 11-14 (w7-9,10-12, PioneerTh)",
		},
		{
			Key:           "MATH1131",
			CourseName:    "Mathematics 1A",
			ComponentType: "TLB",
			ClassCode:     "L01",
			Location:      "Fri 13-16 (w1-10, SEB B25)",
		},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatal(diff)
	}
	require.Contains(t, buf.String(), "Key,Course Name,Component,Class,Location")
}

func TestJsonExporter(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, NewJsonExporter().Export(testSchedule(), &buf))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	require.Equal(t, "ACCT3610", records[0].Key)
	require.Equal(t, "MATH1131", records[1].Key)
	require.Equal(t, Session{
		CourseName:    "Mathematics 1A",
		ComponentType: "TLB",
		ClassCode:     "L01",
		Location:      "Fri 13-16 (w1-10, SEB B25)",
	}, records[1].Sessions[0])
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"schedule.csv", "schedule.JSON"} {
		path := filepath.Join(dir, name)
		e, err := ForPath(path)
		require.NoError(t, err)
		require.NoError(t, ExportFile(e, testSchedule(), path))

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(body), "MATH1131")
	}

	_, err := ForPath(filepath.Join(dir, "schedule.xlsx"))
	require.Error(t, err)
}
