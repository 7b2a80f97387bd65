package classutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAddSession(t *testing.T) {
	schedule := NewSchedule(GroupByCourse{})
	acct := CourseIdentity{Name: "Management Accounting 1", Code: "ACCT2522"}

	require.True(t, schedule.AddSession(acct, SessionRow{"SEM", "W01A", "x", "y", "Full"}))
	require.False(t, schedule.AddSession(acct, SessionRow{"SEM"}))
	require.False(t, schedule.AddSession(CourseIdentity{Name: "No code"}, SessionRow{"LEC", "A", "1", "x", "Open"}))
	require.True(t, schedule.AddSession(acct, SessionRow{"LEC", "A", "1", "x", "Open", "1/1", "100%", "Mon 09-10 (w1, Quad)"}))

	records, ok := schedule.Get("ACCT2522")
	require.True(t, ok)
	expected := []SessionRecord{
		{CourseName: "Management Accounting 1", ComponentType: COMPONENT_SEMINAR, ClassCode: "W01A", Location: "Full"},
		{CourseName: "Management Accounting 1", ComponentType: COMPONENT_LECTURE, ClassCode: "A", Location: "Mon 09-10 (w1, Quad)"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatal(diff)
	}

	_, ok = schedule.Get("MATH1131")
	require.False(t, ok)
	require.Equal(t, 1, schedule.Len())
	require.Equal(t, 2, schedule.SessionCount())
}

func TestScheduleKeepsInsertionOrder(t *testing.T) {
	schedule := NewSchedule(nil)
	row := SessionRow{"LEC", "A", "1", "x", "Open", "1/1", "100%", "Mon"}
	for _, code := range []string{"MATH1131", "ACCT2522", "MATH1131", "COMP1511"} {
		schedule.AddSession(CourseIdentity{Name: code, Code: code}, row)
	}
	require.Equal(t, []string{"MATH1131", "ACCT2522", "COMP1511"}, schedule.Keys())

	restored := RestoreSchedule(schedule.GroupBy(), schedule.Entries())
	if diff := cmp.Diff(schedule.Entries(), restored.Entries()); diff != "" {
		t.Fatal(diff)
	}

	// returned slices are copies
	keys := schedule.Keys()
	keys[0] = "changed"
	records, _ := schedule.Get("MATH1131")
	records[0].ClassCode = "changed"
	require.Equal(t, "MATH1131", schedule.Keys()[0])
	again, _ := schedule.Get("MATH1131")
	require.Equal(t, "A", again[0].ClassCode)
}

func TestRoomsFromLocation(t *testing.T) {
	testCases := []struct {
		location string
		expected []string
	}{
		{location: "Wed 09-10:30 (w1-10, SEB B25)", expected: []string{"SEB B25"}},
		{
			location: "Mon 11-14 (w1-6, BUS 105); Mon 11-14 (w7-9,10-12, PioneerTh)",
			expected: []string{"BUS 105", "PioneerTh"},
		},
		{
			location: "Mon 11-14 (w1-6, BUS 105); Tue 11-14 (w1-6, BUS 105)",
			expected: []string{"BUS 105"},
		},
		{location: "Fri 13-16 (w1-10)", expected: []string{}},
		{location: "75%", expected: []string{}},
		{location: "", expected: []string{}},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, RoomsFromLocation(test.location), test.location)
	}
}

func TestGroupByRoom(t *testing.T) {
	schedule := NewSchedule(GroupByRoom{})
	id := CourseIdentity{Name: "Business Analytics for Accountants", Code: "ACCT3610"}

	require.True(t, schedule.AddSession(id, SessionRow{
		"LEC", "A", "6001", "In Person", "Full", "200/200", "100%",
		"Mon 11-14 (w1-6, BUS 105); Mon 11-14 (w7-9,10-12, PioneerTh)",
	}))
	require.False(t, schedule.AddSession(id, SessionRow{"SEM", "S01", "6002", "Online", "Open", "30/40", "75%"}))

	require.Equal(t, []string{"BUS 105", "PioneerTh"}, schedule.Keys())
	require.Equal(t, 2, schedule.SessionCount())
}

func TestGroupingByName(t *testing.T) {
	g, err := GroupingByName("")
	require.NoError(t, err)
	require.Equal(t, GROUP_BY_COURSE, g.Name())

	g, err = GroupingByName(GROUP_BY_ROOM)
	require.NoError(t, err)
	require.Equal(t, GROUP_BY_ROOM, g.Name())

	_, err = GroupingByName("lecturer")
	require.Error(t, err)
}

func TestSuggest(t *testing.T) {
	keys := []string{"ACCT2522", "ACCT3610", "MATH1131", "COMP1511"}

	suggestions := Suggest(keys, "acct2523", 2)
	require.Equal(t, []string{"ACCT2522", "ACCT3610"}, suggestions)

	require.Empty(t, Suggest(keys, "ZZZZ", 3))
	require.Len(t, Suggest(keys, "ACCT", 1), 1)
}
