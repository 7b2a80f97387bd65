package classutil

import (
	"bytes"
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/htmlutil"
	"classutil-backend/internal/components/telemetry"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_parser_identity    = "parser.identity"
	report_parser_dropped_row = "parser.dropped-row"
	report_parser_block       = "parser.parse-block"
)

// courseTableIndex is the table on a subject page that holds every course.
const courseTableIndex = 2

const sessionRowSelector = "tr.rowLowlight, tr.rowHighlight"

// Parser turns subject pages into courses.
type Parser struct {
	term     string
	splitter BlockSplitter
	tel      telemetry.API
}

// NewParser creates a parser for the given term, a nil splitter uses the
// default RegexpBlockSplitter.
func NewParser(term string, splitter BlockSplitter, tel telemetry.API) Parser {
	assert.NotNil(tel)
	if splitter == nil {
		splitter = NewRegexpBlockSplitter()
	}
	return Parser{
		term:     term,
		splitter: splitter,
		tel:      tel,
	}
}

// ParseSubjectPage returns the courses of a subject page in page order. Blocks
// without a course identity are skipped, each course only keeps its valid rows.
func (p Parser) ParseSubjectPage(rawHtml []byte) ([]Course, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHtml))
	if err != nil {
		return nil, fmt.Errorf("parse subject page: %w", err)
	}

	tables := doc.Find("table")
	if tables.Length() <= courseTableIndex {
		return nil, fmt.Errorf(
			"%w: subject page has %d tables, want at least %d",
			ErrStructuralMismatch, tables.Length(), courseTableIndex+1,
		)
	}
	table := tables.Eq(courseTableIndex)

	content, err := table.Html()
	if err != nil {
		return nil, fmt.Errorf("serialize course table: %w", err)
	}
	header := table.Find("tr").First()
	if header.Length() > 0 {
		headerHtml, err := goquery.OuterHtml(header)
		if err != nil {
			return nil, fmt.Errorf("serialize header row: %w", err)
		}
		content = strings.ReplaceAll(content, headerHtml, "")
	}

	courses := []Course{}
	blocks := p.splitter.Split(content)
	for i := 1; i < len(blocks); i++ {
		course, err := p.parseBlock(blocks[i])
		if err != nil {
			p.tel.ReportWarning(report_parser_identity, err, i)
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (p Parser) parseBlock(block string) (Course, error) {
	// rows outside of a table are dropped by the html parser
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + block + "</table>"))
	if err != nil {
		p.tel.ReportBroken(report_parser_block, err)
		return Course{}, err
	}

	identity, err := ExtractIdentity(doc.Selection, p.term)
	if err != nil {
		return Course{}, err
	}

	course := Course{Identity: identity}
	doc.Find(sessionRowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := NewSessionRow(htmlutil.StrippedStrings(row))
		if !ValidRow(cells) {
			p.tel.ReportDebug(report_parser_dropped_row, identity.Code, []string(cells))
			return
		}
		course.Rows = append(course.Rows, cells)
	})
	return course, nil
}

// ExtractTimetable parses a subject page and adds all of its sessions to the
// schedule.
func (p Parser) ExtractTimetable(rawHtml []byte, schedule *Schedule) error {
	courses, err := p.ParseSubjectPage(rawHtml)
	if err != nil {
		return err
	}
	addCourses(schedule, courses)
	return nil
}

func addCourses(schedule *Schedule, courses []Course) {
	for _, course := range courses {
		for _, row := range course.Rows {
			schedule.AddSession(course.Identity, row)
		}
	}
}
