package model

import (
	"math"
	"testing"
	"time"
)

func TestDimensions_DerivedFields(t *testing.T) {
	tests := []struct {
		name       string
		length     float64
		width      float64
		wantArea   float64
		wantAspect float64
	}{
		{"longer than wide", 20, 5, 100, 4},
		{"wider than long", 5, 20, 100, 4},
		{"square", 8, 8, 64, 1},
		{"zero width", 10, 0, 0, 0},
		{"zero length", 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDimensions(tt.length, tt.width, 3)
			if d.Area != tt.wantArea {
				t.Errorf("expected area %v, got %v", tt.wantArea, d.Area)
			}
			if d.AspectRatio != tt.wantAspect {
				t.Errorf("expected aspect ratio %v, got %v", tt.wantAspect, d.AspectRatio)
			}
		})
	}
}

func TestDimensions_SettersRecompute(t *testing.T) {
	d := NewDimensions(10, 5, 3)

	d.SetLength(30)
	if d.Area != 150 || d.AspectRatio != 6 {
		t.Errorf("after SetLength expected area 150 ratio 6, got %v %v", d.Area, d.AspectRatio)
	}

	d.SetWidth(60)
	if d.Area != 1800 || d.AspectRatio != 2 {
		t.Errorf("after SetWidth expected area 1800 ratio 2, got %v %v", d.Area, d.AspectRatio)
	}

	d.SetHeight(4)
	if d.Height != 4 || d.Area != 1800 {
		t.Errorf("SetHeight must not change area, got height %v area %v", d.Height, d.Area)
	}

	d = Dimensions{Length: 4, Width: 2}
	d.Normalize()
	if d.Area != 8 || d.AspectRatio != 2 {
		t.Errorf("expected Normalize to fill derived fields, got %v %v", d.Area, d.AspectRatio)
	}
}

func TestReview_RunningMean(t *testing.T) {
	var r Review
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if r.Reviewed {
		t.Fatal("new review summary must not be marked reviewed")
	}

	r.Add("Very bad, not good", 1, at)
	r.Add("Okay ish", 3.5, at)
	r.Add("Great", 4.5, at)

	if !r.Reviewed {
		t.Error("expected reviewed after first review")
	}
	if r.NumberOfReviews != 3 {
		t.Errorf("expected 3 reviews, got %d", r.NumberOfReviews)
	}
	if math.Abs(r.Score-3) > 1e-9 {
		t.Errorf("expected mean score 3, got %v", r.Score)
	}
	if len(r.Entries) != 3 || r.Entries[1].Text != "Okay ish" {
		t.Errorf("expected entries kept in order, got %+v", r.Entries)
	}
}

func TestNewSpace_Defaults(t *testing.T) {
	s := NewSpace()
	if s.Features.Outdoor || s.Features.Catering || s.Features.NaturalLight {
		t.Error("outdoor, catering and natural light default to false")
	}
	if !s.Features.ArtificialLight || !s.Features.Projector || !s.Features.Sound || !s.Features.Cameras {
		t.Error("artificial light, projector, sound and cameras default to true")
	}
	if !s.Seating.Comfy {
		t.Error("seating defaults to comfy")
	}
	if !s.HourlyRate.IsZero() {
		t.Errorf("expected zero default rate, got %s", s.HourlyRate)
	}
}
