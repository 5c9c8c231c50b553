package extract

import "errors"

// Errors returned when a row cannot contribute to the collaboration graph.
var (
	// ErrMissingAuthors indicates the author field is absent, null, or blank.
	ErrMissingAuthors = errors.New("author field missing")

	// ErrMalformedAuthors indicates the author field does not decode into a name->id mapping.
	ErrMalformedAuthors = errors.New("author field malformed")

	// ErrInvalidYear indicates the publication year is missing or not an integer.
	ErrInvalidYear = errors.New("publication year invalid")
)

// IsMalformed returns true if err means the row's author data is unusable.
// Missing and malformed author fields are both reported this way.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMissingAuthors) || errors.Is(err, ErrMalformedAuthors)
}

// Reason returns a short machine-friendly label for a skip error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthors):
		return "missing_authors"
	case errors.Is(err, ErrMalformedAuthors):
		return "malformed_authors"
	case errors.Is(err, ErrInvalidYear):
		return "invalid_year"
	default:
		return "error"
	}
}
