package todo

import "strings"

// NormalizeTitle trims surrounding whitespace and rejects empty results.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrInvalidTitle
	}
	return trimmed, nil
}

// normalizePatch trims the title of p, if present, and validates it.
func normalizePatch(p Patch) (Patch, error) {
	if p.Title == nil {
		return p, nil
	}
	title, err := NormalizeTitle(*p.Title)
	if err != nil {
		return Patch{}, err
	}
	p.Title = &title
	return p, nil
}
