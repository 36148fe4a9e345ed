package icns

import "errors"

// Largest returns the candidate with the greatest pixel area.
// On a tie the first-encountered candidate wins.
func Largest(cands []Candidate) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, &FormatError{Kind: NoCandidates, Offset: -1,
			Err: errors.New("nothing to select from")}
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Area() > best.Area() {
			best = c
		}
	}
	return best, nil
}
