package classutil

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	GROUP_BY_COURSE = "course"
	GROUP_BY_ROOM   = "room"
)

// GroupingStrategy decides which schedule keys a record is filed under. A
// strategy returning no keys drops the record.
type GroupingStrategy interface {
	Name() string
	Keys(id CourseIdentity, record SessionRecord) []string
}

// GroupByCourse files every record under the code of its course.
type GroupByCourse struct{}

func (GroupByCourse) Name() string {
	return GROUP_BY_COURSE
}

func (GroupByCourse) Keys(id CourseIdentity, _ SessionRecord) []string {
	return []string{id.Code}
}

// GroupByRoom files every record under each distinct room it meets in.
type GroupByRoom struct{}

func (GroupByRoom) Name() string {
	return GROUP_BY_ROOM
}

func (GroupByRoom) Keys(_ CourseIdentity, record SessionRecord) []string {
	return RoomsFromLocation(record.Location)
}

func GroupingByName(name string) (GroupingStrategy, error) {
	switch name {
	case GROUP_BY_COURSE, "":
		return GroupByCourse{}, nil
	case GROUP_BY_ROOM:
		return GroupByRoom{}, nil
	}
	return nil, fmt.Errorf("unknown grouping strategy '%s'", name)
}

// a meeting looks like "Wed 09-10:30 (w1-10, SEB B25)"
var meetingDetailsPattern = regexp.MustCompile(`\(([^()]*)\)\s*$`)

// RoomsFromLocation returns the distinct rooms of a semicolon separated list
// of meetings in the order they first appear. Meetings without a room are
// skipped.
func RoomsFromLocation(location string) []string {
	seen := map[string]bool{}
	rooms := []string{}
	for _, meeting := range strings.Split(location, ";") {
		groups := meetingDetailsPattern.FindStringSubmatch(strings.TrimSpace(meeting))
		if len(groups) < 2 {
			continue
		}
		// weeks may contain commas too, the room follows the last ", "
		idx := strings.LastIndex(groups[1], ", ")
		if idx < 0 {
			continue
		}
		room := strings.TrimSpace(groups[1][idx+2:])
		if room == "" || seen[room] {
			continue
		}
		seen[room] = true
		rooms = append(rooms, room)
	}
	return rooms
}
