package classutil

import "errors"

var (
	// ErrStructuralMismatch means an expected table or marker is missing, the
	// site template has most likely changed.
	ErrStructuralMismatch = errors.New("classutil: structural mismatch")
	// ErrNotCourseBlock means a split segment did not carry a course identity.
	ErrNotCourseBlock = errors.New("classutil: not a course block")
	// ErrFetchFailed means a page could not be fetched.
	ErrFetchFailed = errors.New("classutil: fetch failed")
)
