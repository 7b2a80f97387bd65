package classutil

import (
	"classutil-backend/internal/components/htmlutil"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SubjectLinks returns the relative link targets inside a campus fragment in
// document order. Absolute links point off the site and are dropped.
func SubjectLinks(fragment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse campus fragment: %w", err)
	}

	links := []string{}
	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		if !isSubjectLink(anchor.Href) {
			continue
		}
		links = append(links, anchor.Href)
	}
	return links, nil
}

func isSubjectLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	return !parsed.IsAbs() && parsed.Host == ""
}

// FilterLinks keeps the links that contain term, an empty term keeps all of them.
func FilterLinks(links []string, term string) []string {
	filtered := []string{}
	for _, link := range links {
		if strings.Contains(link, term) {
			filtered = append(filtered, link)
		}
	}
	return filtered
}
