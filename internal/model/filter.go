package model

// FilterConfig constrains which candidates reach the output. Zero values
// leave a constraint unset.
type FilterConfig struct {
	MinLength        int  `json:"min_length"`
	MaxLength        int  `json:"max_length"`
	RequireUppercase bool `json:"require_uppercase"`
	RequireSymbol    bool `json:"require_symbol"`
}

// Validate rejects configurations that could never accept a candidate.
// It runs before generation starts so a bad config has no side effects.
func (c FilterConfig) Validate() error {
	if c.MinLength < 0 {
		return &InvalidFilterConfigError{Field: "min_length", Reason: "must not be negative"}
	}

	if c.MaxLength < 0 {
		return &InvalidFilterConfigError{Field: "max_length", Reason: "must not be negative"}
	}

	if c.MinLength > 0 && c.MaxLength > 0 && c.MinLength > c.MaxLength {
		return &InvalidFilterConfigError{Field: "min_length", Reason: "greater than max_length"}
	}

	return nil
}
