package therapies

import (
	"fmt"
	"time"
)

// Category classifies a therapy offering.
type Category string

const (
	CategoryRelaxing    Category = "relaxing"
	CategoryTherapeutic Category = "therapeutic"
	CategoryFitness     Category = "fitness"
	CategoryDeepMind    Category = "deepMind"
	CategoryHolistic    Category = "holistic"
	CategoryEvents      Category = "events"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRelaxing, CategoryTherapeutic, CategoryFitness,
		CategoryDeepMind, CategoryHolistic, CategoryEvents:
		return true
	}
	return false
}

const (
	minDurationMinutes = 15
	maxDurationMinutes = 180
)

// Therapy is a bookable service definition. Bookings reference offerings
// only by the denormalized type label, never by id.
type Therapy struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        Category  `json:"type"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
	Comments        []string  `json:"comentarios"`
	MassageKind     string    `json:"tipoDeMasaje,omitempty"`  // relaxing offerings only
	BodyZone        string    `json:"zonaDelCuerpo,omitempty"` // therapeutic offerings only
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateRequest is the payload for POST /terapias.
type CreateRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        Category `json:"type"`
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"duration"`
	BackgroundImage string   `json:"backgroundImage"`
	Comments        []string `json:"comentarios"`
	MassageKind     string   `json:"tipoDeMasaje"`
	BodyZone        string   `json:"zonaDelCuerpo"`
}

// Validate checks field presence and ranges for creation.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, r.Category)
	}
	if r.Price == nil {
		return fmt.Errorf("%w: price is required", ErrValidation)
	}
	if *r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if r.DurationMinutes == nil {
		return fmt.Errorf("%w: duration is required", ErrValidation)
	}
	if *r.DurationMinutes < minDurationMinutes || *r.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes", ErrValidation, minDurationMinutes, maxDurationMinutes)
	}
	return nil
}

// UpdateRequest carries optional field edits for PUT /terapias/{id}.
type UpdateRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Category        *Category `json:"type"`
	Price           *float64  `json:"price"`
	DurationMinutes *int      `json:"duration"`
	BackgroundImage *string   `json:"backgroundImage"`
	Comments        *[]string `json:"comentarios"`
	MassageKind     *string   `json:"tipoDeMasaje"`
	BodyZone        *string   `json:"zonaDelCuerpo"`
}

// Validate requires at least one field and checks ranges on the supplied ones.
func (r *UpdateRequest) Validate() error {
	if r.Name == nil && r.Description == nil && r.Category == nil && r.Price == nil &&
		r.DurationMinutes == nil && r.BackgroundImage == nil && r.Comments == nil &&
		r.MassageKind == nil && r.BodyZone == nil {
		return fmt.Errorf("%w: at least one field must be provided", ErrValidation)
	}
	if r.Category != nil && !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, *r.Category)
	}
	if r.Price != nil && *r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if r.DurationMinutes != nil && (*r.DurationMinutes < minDurationMinutes || *r.DurationMinutes > maxDurationMinutes) {
		return fmt.Errorf("%w: duration must be between %d and %d minutes", ErrValidation, minDurationMinutes, maxDurationMinutes)
	}
	return nil
}

// applyCategoryGates blanks sub-attributes that do not apply to the
// offering's category.
func applyCategoryGates(t *Therapy) {
	if t.Category != CategoryRelaxing {
		t.MassageKind = ""
	}
	if t.Category != CategoryTherapeutic {
		t.BodyZone = ""
	}
}
