package classutil

// ComponentType is the kind of teaching session a row describes.
type ComponentType string

const (
	COMPONENT_LECTURE      ComponentType = "LEC"
	COMPONENT_TUTORIAL     ComponentType = "TUT"
	COMPONENT_SEMINAR      ComponentType = "SEM"
	COMPONENT_TUTORIAL_LAB ComponentType = "TLB"
	COMPONENT_OTHER        ComponentType = "OTH"
)

var componentTypes = map[ComponentType]bool{
	COMPONENT_LECTURE:      true,
	COMPONENT_TUTORIAL:     true,
	COMPONENT_SEMINAR:      true,
	COMPONENT_TUTORIAL_LAB: true,
	COMPONENT_OTHER:        true,
}

func (c ComponentType) Valid() bool {
	return componentTypes[c]
}

// Campus indices follow the order the campuses are listed on the root page.
const (
	CAMPUS_KENSINGTON = iota
	CAMPUS_PADDINGTON
	CAMPUS_AFDA
)

// CourseIdentity is the title and the term-less code of one course block.
type CourseIdentity struct {
	Name string
	Code string
}

// SessionRow holds the stripped strings of one highlighted table row, at most
// MaxRowCells of them.
type SessionRow []string

const MaxRowCells = 8

// NewSessionRow drops every cell after MaxRowCells.
func NewSessionRow(cells []string) SessionRow {
	if len(cells) > MaxRowCells {
		cells = cells[:MaxRowCells]
	}
	return SessionRow(cells)
}

// SessionRecord is the normalized unit stored in a Schedule.
type SessionRecord struct {
	CourseName    string
	ComponentType ComponentType
	ClassCode     string
	// Location is the last cell of the row verbatim, it may hold several
	// semicolon separated meetings.
	Location string
}

// Course is one parsed course block, Rows only contains rows that passed ValidRow.
type Course struct {
	Identity CourseIdentity
	Rows     []SessionRow
}
