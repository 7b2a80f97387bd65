package classutil

const (
	componentCell = 0
	classCodeCell = 1
	statusCell    = 4
)

// MinSessionCells is the fewest cells a row needs to be turned into a record.
const MinSessionCells = 2

var bookableStatuses = map[string]bool{
	"Full": true,
	"Open": true,
}

// ValidRow reports whether a row describes a bookable session of a known
// component type.
func ValidRow(row SessionRow) bool {
	if len(row) <= statusCell {
		return false
	}
	if !bookableStatuses[row[statusCell]] {
		return false
	}
	return ComponentType(row[componentCell]).Valid()
}
