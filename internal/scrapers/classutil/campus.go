package classutil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// campusTableIndex is the table on the root page that lists every subject
// grouped by campus.
const campusTableIndex = 1

// campusMarker opens the header row of every campus section.
const campusMarker = `class="cutabhead"`

// PartitionCampuses splits the campus table of the root page into one html
// fragment per campus, in the order the campuses appear on the page.
func PartitionCampuses(rawHtml []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHtml))
	if err != nil {
		return nil, fmt.Errorf("parse root page: %w", err)
	}

	tables := doc.Find("table")
	if tables.Length() <= campusTableIndex {
		return nil, fmt.Errorf(
			"%w: root page has %d tables, want at least %d",
			ErrStructuralMismatch, tables.Length(), campusTableIndex+1,
		)
	}

	serialized, err := goquery.OuterHtml(tables.Eq(campusTableIndex))
	if err != nil {
		return nil, fmt.Errorf("serialize campus table: %w", err)
	}

	// everything before the first marker is table preamble
	parts := strings.Split(serialized, campusMarker)
	return parts[1:], nil
}
