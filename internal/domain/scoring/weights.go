package scoring

import "github.com/okian/worthboard/internal/domain/model"

// PostWeights are the coefficients for post and person worth.
type PostWeights struct {
	Like    float64 `json:"like" koanf:"like"`
	Comment float64 `json:"comment" koanf:"comment"`
	Basic   float64 `json:"basic" koanf:"basic"`
	Image   float64 `json:"image" koanf:"image"`
}

// EventWeights are the coefficients for event worth.
type EventWeights struct {
	Like      float64 `json:"like" koanf:"like"`
	Comment   float64 `json:"comment" koanf:"comment"`
	Attendees float64 `json:"attendees" koanf:"attendees"`
	Duration  float64 `json:"duration" koanf:"duration"`
}

// DefaultPostWeights are the weights of the quick leaderboards.
func DefaultPostWeights() PostWeights {
	return PostWeights{Like: 1, Comment: 2, Basic: 1, Image: 2}
}

// DefaultEventWeights are the starting values offered for events.
func DefaultEventWeights() EventWeights {
	return EventWeights{Like: 1, Comment: 2, Attendees: 3, Duration: 2}
}

// KindWeight maps every post kind to its weight. Unknown kinds weigh zero.
func (w PostWeights) KindWeight(k model.PostKind) float64 {
	switch k {
	case model.KindBasic:
		return w.Basic
	case model.KindImage:
		return w.Image
	default:
		return 0
	}
}
