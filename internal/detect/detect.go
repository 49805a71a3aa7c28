// Package detect scans recognized text for sensitive data such as phone
// numbers, ID numbers and bank cards. Matching is pure pattern work with no
// state, so the same input always produces the same matches.
package detect

import (
	"image"
	"regexp"
)

// Category identifies a kind of sensitive data.
type Category string

const (
	Phone      Category = "phone"
	NationalID Category = "national-id"
	BankCard   Category = "bank-card"
	Email      Category = "email"
	IPAddress  Category = "ip-address"
)

// Match is one sensitive substring found in a piece of text.
type Match struct {
	Category Category
	Label    string
	Value    string
	Start    int // byte offset into the scanned text
	End      int
	// Rect is the on-image region the text came from. Zero unless the match
	// was produced by DetectIn.
	Rect image.Rectangle
}

type pattern struct {
	category Category
	label    string
	re       *regexp.Regexp
}

// Declaration order fixes the report order of DetectAll.
var patterns = []pattern{
	{Phone, "phone number", regexp.MustCompile(`1[3-9]\d{9}`)},
	{NationalID, "ID number", regexp.MustCompile(`\d{17}[\dXx]`)},
	{BankCard, "bank card", regexp.MustCompile(`\d{16,19}`)},
	{Email, "email address", regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)},
	{IPAddress, "IP address", regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)},
}

// Categories returns every known category in pattern order.
func Categories() []Category {
	out := make([]Category, len(patterns))
	for i, p := range patterns {
		out[i] = p.category
	}
	return out
}

// DetectAll scans text with every pattern and returns all matches, pattern
// order first, then left to right. Per pattern the matches do not overlap;
// across patterns they may, and overlapping matches are all reported.
func DetectAll(text string) []Match {
	var out []Match
	for _, p := range patterns {
		for _, span := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, Match{
				Category: p.category,
				Label:    p.label,
				Value:    text[span[0]:span[1]],
				Start:    span[0],
				End:      span[1],
			})
		}
	}
	return out
}

// TextRegion is a piece of recognized text with its on-image location.
type TextRegion struct {
	Text string
	Rect image.Rectangle
}

// DetectIn runs DetectAll over each region's text, keeps the matches whose
// category is in keep (nil keeps everything) and stamps each match with the
// source region's rectangle.
func DetectIn(regions []TextRegion, keep []Category) []Match {
	allowed := map[Category]bool{}
	for _, c := range keep {
		allowed[c] = true
	}
	var out []Match
	for _, r := range regions {
		for _, m := range DetectAll(r.Text) {
			if keep != nil && !allowed[m.Category] {
				continue
			}
			m.Rect = r.Rect
			out = append(out, m)
		}
	}
	return out
}
