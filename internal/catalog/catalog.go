// Package catalog holds the static reference data of a facility: departments,
// visit patterns, the historical journey corpus, the transition table, intent
// definitions, crowd curves and the facility graph. It is loaded once at
// startup and read-only afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/facility.yaml
var defaultFacility []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// Urgency is the priority level attached to an intent or a reroute request
type Urgency string

const (
	UrgencyHigh   Urgency = "HIGH"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyLow    Urgency = "LOW"
)

// Roles known to the transition table
const (
	RolePatientNew      = "patient_new"
	RolePatientFollowup = "patient_followup"
	RoleVisitor         = "visitor"
)

type Department struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Floor    int    `yaml:"floor" json:"floor"`
	Capacity int    `yaml:"capacity" json:"capacity"`
	Category string `yaml:"category" json:"category"`
}

// Pattern is the typical department sequence of an appointment type
type Pattern struct {
	Sequence    []string `yaml:"sequence" json:"sequence"`
	AvgDuration int      `yaml:"avg_duration" json:"avgDuration"`
}

// Journey is one completed historical visit. DoctorType is empty for visits
// that did not involve a doctor.
type Journey struct {
	ID              string   `yaml:"id" json:"id"`
	DoctorType      string   `yaml:"doctor" json:"doctorType,omitempty"`
	AppointmentType string   `yaml:"appointment" json:"appointmentType"`
	Role            string   `yaml:"role" json:"role"`
	Sequence        []string `yaml:"sequence" json:"sequence"`
	Duration        float64  `yaml:"duration" json:"duration"`
}

// Transition is one weighted next-location candidate
type Transition struct {
	To          string  `yaml:"to" json:"to"`
	Probability float64 `yaml:"p" json:"probability"`
}

type transitionRole struct {
	Role string       `yaml:"role"`
	Next []Transition `yaml:"next"`
}

type transitionRow struct {
	From  string           `yaml:"from"`
	Roles []transitionRole `yaml:"roles"`
}

// Alias maps substrings of free-text locations onto a canonical location
type Alias struct {
	Location string   `yaml:"location"`
	Match    []string `yaml:"match"`
}

type Keyword struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

type Intent struct {
	Name     string    `yaml:"name"`
	Target   string    `yaml:"target"`
	Urgency  Urgency   `yaml:"urgency"`
	Keywords []Keyword `yaml:"keywords"`
}

// Facility is the raw node and edge list of the facility graph
type Facility struct {
	Nodes []domain.Node `yaml:"nodes"`
	Edges []domain.Edge `yaml:"edges"`
}

type document struct {
	Departments []Department         `yaml:"departments"`
	Doctors     map[string][]string  `yaml:"doctors"`
	Patterns    map[string]Pattern   `yaml:"patterns"`
	Journeys    []Journey            `yaml:"journeys"`
	Transitions []transitionRow      `yaml:"transitions"`
	Aliases     []Alias              `yaml:"aliases"`
	Intents     []Intent             `yaml:"intents"`
	CrowdCurves map[string][]float64 `yaml:"crowd_curves"`
	Facility    Facility             `yaml:"facility"`
}

// Catalog is the indexed, read-only view of a facility document. Slices it
// returns must not be modified by callers.
type Catalog struct {
	doc         document
	departments map[string]Department
	transitions map[string]map[string][]Transition
	locations   []string
}

// Default parses the embedded facility data
func Default() (*Catalog, error) {
	return Parse(defaultFacility)
}

// Load reads a facility document from path, or the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a facility document
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		doc:         doc,
		departments: make(map[string]Department, len(doc.Departments)),
		transitions: make(map[string]map[string][]Transition, len(doc.Transitions)),
	}
	for _, d := range doc.Departments {
		c.departments[d.ID] = d
	}
	for _, row := range doc.Transitions {
		if _, ok := c.transitions[row.From]; !ok {
			c.locations = append(c.locations, row.From)
			c.transitions[row.From] = make(map[string][]Transition, len(row.Roles))
		}
		for _, r := range row.Roles {
			c.transitions[row.From][r.Role] = r.Next
		}
	}
	return c, nil
}

func (d *document) validate() error {
	seen := make(map[string]bool, len(d.Departments))
	for _, dep := range d.Departments {
		if dep.ID == "" {
			return fmt.Errorf("%w: department without id", ErrInvalidCatalog)
		}
		if seen[dep.ID] {
			return fmt.Errorf("%w: duplicate department %s", ErrInvalidCatalog, dep.ID)
		}
		if dep.Capacity < 0 {
			return fmt.Errorf("%w: department %s has negative capacity", ErrInvalidCatalog, dep.ID)
		}
		seen[dep.ID] = true
	}
	for _, j := range d.Journeys {
		if j.AppointmentType == "" || len(j.Sequence) == 0 {
			return fmt.Errorf("%w: journey %s needs an appointment type and a sequence", ErrInvalidCatalog, j.ID)
		}
	}
	for _, row := range d.Transitions {
		for _, r := range row.Roles {
			for _, t := range r.Next {
				if t.Probability < 0 {
					return fmt.Errorf("%w: transition %s -> %s is negative", ErrInvalidCatalog, row.From, t.To)
				}
			}
		}
	}
	for _, in := range d.Intents {
		switch in.Urgency {
		case UrgencyHigh, UrgencyMedium, UrgencyLow:
		default:
			return fmt.Errorf("%w: intent %s has urgency %q", ErrInvalidCatalog, in.Name, in.Urgency)
		}
		for _, kw := range in.Keywords {
			if strings.TrimSpace(kw.Phrase) == "" {
				return fmt.Errorf("%w: intent %s has an empty keyword", ErrInvalidCatalog, in.Name)
			}
			if kw.Weight < 0 {
				return fmt.Errorf("%w: intent %s keyword %q has negative weight", ErrInvalidCatalog, in.Name, kw.Phrase)
			}
		}
	}
	for _, a := range d.Aliases {
		for _, m := range a.Match {
			// an empty match is a substring of every input
			if strings.TrimSpace(m) == "" {
				return fmt.Errorf("%w: alias for %s has an empty match", ErrInvalidCatalog, a.Location)
			}
		}
	}
	for cat, curve := range d.CrowdCurves {
		if len(curve) != 24 {
			return fmt.Errorf("%w: crowd curve %s has %d hours", ErrInvalidCatalog, cat, len(curve))
		}
	}
	return nil
}

func (c *Catalog) Department(id string) (Department, bool) {
	d, ok := c.departments[id]
	return d, ok
}

// Departments returns every department in document order
func (c *Catalog) Departments() []Department {
	return c.doc.Departments
}

// RelevantDepartments lists the departments a doctor type usually sends
// patients through.
func (c *Catalog) RelevantDepartments(doctorType string) []string {
	return c.doc.Doctors[doctorType]
}

func (c *Catalog) Pattern(appointmentType string) (Pattern, bool) {
	p, ok := c.doc.Patterns[appointmentType]
	return p, ok
}

func (c *Catalog) Journeys() []Journey {
	return c.doc.Journeys
}

// Transitions returns the ordered next-location candidates for a location
// and role, nil when the table has no entry.
func (c *Catalog) Transitions(location, role string) []Transition {
	return c.transitions[location][role]
}

// HasLocation reports whether the transition table has a row for location
func (c *Catalog) HasLocation(location string) bool {
	_, ok := c.transitions[location]
	return ok
}

// Locations lists transition table rows in document order
func (c *Catalog) Locations() []string {
	return c.locations
}

func (c *Catalog) Aliases() []Alias {
	return c.doc.Aliases
}

func (c *Catalog) Intents() []Intent {
	return c.doc.Intents
}

// CrowdCurve returns the 24 hourly crowd levels of a department category
func (c *Catalog) CrowdCurve(category string) ([]float64, bool) {
	curve, ok := c.doc.CrowdCurves[category]
	return curve, ok
}

func (c *Catalog) Facility() Facility {
	return c.doc.Facility
}
