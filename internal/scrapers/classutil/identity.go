package classutil

import (
	"classutil-backend/internal/components/htmlutil"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const courseMarkerSelector = ".cucourse"

// ExtractIdentity reads the course code and title from the two course marker
// cells of a block. The first marker holds an anchor named after the code
// with the term appended, the second holds the title.
func ExtractIdentity(block *goquery.Selection, term string) (CourseIdentity, error) {
	markers := block.Find(courseMarkerSelector)
	if markers.Length() < 2 {
		return CourseIdentity{}, fmt.Errorf(
			"%w: found %d course markers, want 2",
			ErrNotCourseBlock, markers.Length(),
		)
	}

	rawCode, ok := markers.Eq(0).Find("a[name]").First().Attr("name")
	rawCode = strings.TrimSpace(rawCode)
	if !ok || rawCode == "" {
		return CourseIdentity{}, fmt.Errorf("%w: course marker has no named anchor", ErrNotCourseBlock)
	}

	code := rawCode
	if term != "" {
		code = strings.ReplaceAll(rawCode, term, "")
	}

	return CourseIdentity{
		Name: htmlutil.CleanText(markers.Eq(1).Text()),
		Code: code,
	}, nil
}
