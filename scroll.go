package morph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Section is a page region whose top edge drives a morph when it crosses the
// viewport's vertical center.
type Section struct {
	Name      string    `json:"name"`
	Top       float64   `json:"top"`       // page-space y of the top edge
	Enter     ShapeName `json:"enter"`     // morph when scrolling down past the edge
	LeaveBack ShapeName `json:"leaveBack"` // morph when scrolling back up past it
}

// Direction tells which way a section edge was crossed.
type Direction uint8

const (
	DirectionEnter     Direction = iota // edge moved above the viewport center
	DirectionLeaveBack                  // edge moved back below the viewport center
)

func (d Direction) String() string {
	if d == DirectionEnter {
		return "enter"
	}
	return "leave-back"
}

// Crossing is one fired section trigger.
type Crossing struct {
	Section   string
	Direction Direction
	Shape     ShapeName
}

// DefaultSections returns the portfolio trigger table with the given section
// tops (skills, certificates, projects, contact).
func DefaultSections(skills, certificates, projects, contact float64) []Section {
	return []Section{
		{Name: "skills", Top: skills, Enter: ShapeRing, LeaveBack: ShapeSphere},
		{Name: "certificates", Top: certificates, Enter: ShapeCloud, LeaveBack: ShapeRing},
		{Name: "projects", Top: projects, Enter: ShapeWave, LeaveBack: ShapeCloud},
		{Name: "contact", Top: contact, Enter: ShapeSphere, LeaveBack: ShapeWave},
	}
}

// sectionFile is the JSON layout accepted by LoadSections.
type sectionFile struct {
	PageHeight float64   `json:"pageHeight"`
	Sections   []Section `json:"sections"`
}

// LoadSections parses a JSON section table:
//
//	{"pageHeight": 5000, "sections": [{"name": "skills", "top": 900, "enter": "ring", "leaveBack": "sphere"}]}
func LoadSections(jsonData []byte) (sections []Section, pageHeight float64, err error) {
	var f sectionFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, 0, fmt.Errorf("parse sections: %w", err)
	}
	if len(f.Sections) == 0 {
		return nil, 0, fmt.Errorf("parse sections: no sections")
	}
	for i, s := range f.Sections {
		if s.Name == "" || s.Enter == "" || s.LeaveBack == "" {
			return nil, 0, fmt.Errorf("parse sections: section %d: name, enter and leaveBack are required", i)
		}
	}
	return f.Sections, f.PageHeight, nil
}

// ScrollObserver tracks the page scroll position and reports section edges
// crossing the viewport center.
type ScrollObserver struct {
	sections   []Section // sorted by Top
	active     []bool    // edge is at or above the center line
	scrollY    float64
	viewportH  float64
	pageHeight float64
}

// NewScrollObserver creates an observer at scroll position 0. pageHeight
// bounds scrolling when positive.
func NewScrollObserver(sections []Section, viewportH, pageHeight float64) *ScrollObserver {
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Top < sorted[j].Top })
	return &ScrollObserver{
		sections:   sorted,
		active:     make([]bool, len(sorted)),
		viewportH:  max(viewportH, 0),
		pageHeight: pageHeight,
	}
}

// Sections returns the observed sections ordered by Top.
// The returned slice MUST NOT be mutated.
func (o *ScrollObserver) Sections() []Section { return o.sections }

// ScrollY returns the current scroll offset.
func (o *ScrollObserver) ScrollY() float64 { return o.scrollY }

// ViewportHeight returns the viewport height used for the center line.
func (o *ScrollObserver) ViewportHeight() float64 { return o.viewportH }

// CenterLine returns the page-space y of the viewport's vertical center.
func (o *ScrollObserver) CenterLine() float64 {
	return o.scrollY + o.viewportH/2
}

// MaxScroll returns the largest allowed scroll offset, or -1 when unbounded.
func (o *ScrollObserver) MaxScroll() float64 {
	if o.pageHeight <= 0 {
		return -1
	}
	return max(o.pageHeight-o.viewportH, 0)
}

// Refresh evaluates the current position without scrolling. Sections whose
// edge is already above the center fire Enter, as on a page loaded
// mid-scroll.
func (o *ScrollObserver) Refresh() []Crossing {
	return o.evaluate()
}

// ScrollTo moves to page offset y and returns the crossings in the order
// they were passed.
func (o *ScrollObserver) ScrollTo(y float64) []Crossing {
	o.scrollY = o.clamp(y)
	return o.evaluate()
}

// ScrollBy moves by dy (positive scrolls down the page).
func (o *ScrollObserver) ScrollBy(dy float64) []Crossing {
	return o.ScrollTo(o.scrollY + dy)
}

// SetViewport changes the viewport height. The center line moves with it,
// so a resize can fire crossings.
func (o *ScrollObserver) SetViewport(h float64) []Crossing {
	o.viewportH = max(h, 0)
	o.scrollY = o.clamp(o.scrollY)
	return o.evaluate()
}

func (o *ScrollObserver) clamp(y float64) float64 {
	if y != y || y < 0 {
		return 0
	}
	if m := o.MaxScroll(); m >= 0 && y > m {
		return m
	}
	return y
}

// evaluate updates the per-section state and collects crossings. A single
// call only moves the line one way, so at most one of the loops fires.
func (o *ScrollObserver) evaluate() []Crossing {
	line := o.CenterLine()
	var out []Crossing

	// Leave-backs happen while scrolling up, so the lowest edge goes first.
	for i := len(o.sections) - 1; i >= 0; i-- {
		s := &o.sections[i]
		if o.active[i] && s.Top > line {
			o.active[i] = false
			out = append(out, Crossing{Section: s.Name, Direction: DirectionLeaveBack, Shape: s.LeaveBack})
		}
	}
	for i := range o.sections {
		s := &o.sections[i]
		if !o.active[i] && s.Top <= line {
			o.active[i] = true
			out = append(out, Crossing{Section: s.Name, Direction: DirectionEnter, Shape: s.Enter})
		}
	}
	return out
}
