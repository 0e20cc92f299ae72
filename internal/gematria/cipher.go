// Package gematria computes the numerological alignment score (GAS):
// letter-cipher sums over names, date numerology, proximity to a fixed
// ritual-number catalog, and birthday alignment.
package gematria

import "strings"

// CipherSet holds the four cipher sums for one cleaned name.
type CipherSet struct {
	Ordinal        int `json:"ordinal"`
	Reverse        int `json:"reverse"`
	Reduced        int `json:"reduced"`
	ReverseReduced int `json:"reverse_reduced"`
}

// Values returns the four sums in a fixed order for proximity scans.
func (c CipherSet) Values() [4]int {
	return [4]int{c.Ordinal, c.Reverse, c.Reduced, c.ReverseReduced}
}

// ComputeCiphers strips everything but letters, uppercases, and sums the
// name under the four cipher tables: ordinal A=1..Z=26, reverse Z=1..A=26,
// and the Pythagorean-reduced repeating 1-9 variants of each. An input
// that cleans down to nothing sums to zero across the board.
func ComputeCiphers(name string) CipherSet {
	var set CipherSet
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			continue
		}
		i := int(r - 'A') // 0-based position in the alphabet

		set.Ordinal += i + 1
		set.Reverse += 26 - i
		set.Reduced += i%9 + 1
		set.ReverseReduced += (25-i)%9 + 1
	}
	return set
}
