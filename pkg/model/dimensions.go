package model

// Dimensions describes a box-shaped room. Area and AspectRatio are derived and are
// recomputed whenever a side changes.
type Dimensions struct {
	Length      float64 `json:"length" bson:"length" validate:"gte=0"`
	Width       float64 `json:"width" bson:"width" validate:"gte=0"`
	Height      float64 `json:"height" bson:"height" validate:"gte=0"`
	Area        float64 `json:"area" bson:"area"`
	AspectRatio float64 `json:"aspect_ratio" bson:"aspect_ratio"`
}

func NewDimensions(length, width, height float64) Dimensions {
	d := Dimensions{Length: length, Width: width, Height: height}
	d.recompute()
	return d
}

func (d *Dimensions) SetLength(length float64) {
	d.Length = length
	d.recompute()
}

func (d *Dimensions) SetWidth(width float64) {
	d.Width = width
	d.recompute()
}

func (d *Dimensions) SetHeight(height float64) {
	d.Height = height
}

func (d *Dimensions) Set(length, width, height float64) {
	d.Length, d.Width, d.Height = length, width, height
	d.recompute()
}

// Normalize recomputes the derived fields, e.g. after decoding client input.
func (d *Dimensions) Normalize() {
	d.recompute()
}

func (d *Dimensions) recompute() {
	d.Area = d.Length * d.Width
	if d.Area == 0 {
		d.AspectRatio = 0
		return
	}
	if d.Length > d.Width {
		d.AspectRatio = d.Length / d.Width
	} else {
		d.AspectRatio = d.Width / d.Length
	}
}
