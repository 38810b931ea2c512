package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Space struct {
	ID             string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	NumberOfPeople int             `json:"number_of_people" bson:"number_of_people" validate:"min=0,max=100000"`
	Dimensions     Dimensions      `json:"dimensions" bson:"dimensions"`
	Seating        Seating         `json:"seating" bson:"seating"`
	Features       Features        `json:"features" bson:"features"`
	Tags           []string        `json:"tags,omitempty" bson:"tags" validate:"omitempty,max=20,dive,required,min=1,max=50"`
	ManagerPhone   string          `json:"manager_phone,omitempty" bson:"manager_phone" validate:"omitempty,e164"`
	HourlyRate     decimal.Decimal `json:"hourly_rate" bson:"-" validate:"gte=0"`
	Review         Review          `json:"review" bson:"review"`
	CalendarOrigin time.Time       `json:"calendar_origin" bson:"-"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
}

// NewSpace returns a space with the attribute defaults a freshly listed venue starts with.
func NewSpace() *Space {
	return &Space{
		Seating:  Seating{Comfy: true},
		Features: DefaultFeatures(),
	}
}

type Features struct {
	Outdoor         bool `json:"outdoor" bson:"outdoor"`
	Catering        bool `json:"catering" bson:"catering"`
	NaturalLight    bool `json:"natural_light" bson:"natural_light"`
	ArtificialLight bool `json:"artificial_light" bson:"artificial_light"`
	Projector       bool `json:"projector" bson:"projector"`
	Sound           bool `json:"sound" bson:"sound"`
	Cameras         bool `json:"cameras" bson:"cameras"`
}

func DefaultFeatures() Features {
	return Features{
		ArtificialLight: true,
		Projector:       true,
		Sound:           true,
		Cameras:         true,
	}
}

type Seating struct {
	NumberOfSeats int  `json:"number_of_seats" bson:"number_of_seats" validate:"min=0,max=100000"`
	Slanted       bool `json:"slanted" bson:"slanted"`
	Surround      bool `json:"surround" bson:"surround"`
	Comfy         bool `json:"comfy" bson:"comfy"`
}

type SpaceUpdate struct {
	Name           string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	NumberOfPeople *int        `json:"number_of_people,omitempty" validate:"omitempty,min=0,max=100000"`
	Dimensions     *Dimensions `json:"dimensions,omitempty"`
	Seating        *Seating    `json:"seating,omitempty"`
	Features       *Features   `json:"features,omitempty"`
	Tags           *[]string   `json:"tags,omitempty" validate:"omitempty,max=20,dive,required,min=1,max=50"`
	ManagerPhone   *string     `json:"manager_phone,omitempty" validate:"omitempty,e164"`
}

type RateUpdate struct {
	HourlyRate decimal.Decimal `json:"hourly_rate" validate:"gte=0"`
}
