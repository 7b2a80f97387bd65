package classutil

import "regexp"

// BlockSplitter cuts the serialized course table of a subject page into
// segments, the first segment is the content before the first course and is
// never a course.
type BlockSplitter interface {
	Split(tableHtml string) []string
}

// courseHeaderPattern matches the unstyled row that carries a named anchor
// and a vertically centered title cell.
var courseHeaderPattern = regexp.MustCompile(`(?s)<tr>.+?name="\w+?".+?valign="center">.+?</tr>`)

// RegexpBlockSplitter starts a new segment at every match of Pattern, so each
// course segment begins with its own header row.
type RegexpBlockSplitter struct {
	Pattern *regexp.Regexp
}

func NewRegexpBlockSplitter() RegexpBlockSplitter {
	return RegexpBlockSplitter{Pattern: courseHeaderPattern}
}

func (s RegexpBlockSplitter) Split(tableHtml string) []string {
	pattern := s.Pattern
	if pattern == nil {
		pattern = courseHeaderPattern
	}

	matches := pattern.FindAllStringIndex(tableHtml, -1)
	blocks := make([]string, 0, len(matches)+1)
	prev := 0
	for _, loc := range matches {
		blocks = append(blocks, tableHtml[prev:loc[0]])
		prev = loc[0]
	}
	blocks = append(blocks, tableHtml[prev:])
	return blocks
}
