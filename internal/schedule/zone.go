package schedule

import "time"

// ReferenceZoneName is the fixed zone in which operating hours are defined.
// Storage uses UTC; display uses whatever zone the client reports.
const ReferenceZoneName = "America/New_York"

// Normalizer converts instants between the storage zone, the business-hours
// reference zone, and a caller's local zone. Conversions rebase the wall
// clock without changing the instant, so they are total and lossless.
type Normalizer struct {
	ref *time.Location
}

func NewNormalizer() (*Normalizer, error) {
	ref, err := time.LoadLocation(ReferenceZoneName)
	if err != nil {
		return nil, err
	}
	return &Normalizer{ref: ref}, nil
}

// Reference returns the business-hours reference zone.
func (n *Normalizer) Reference() *time.Location {
	return n.ref
}

func (n *Normalizer) ToReference(t time.Time) time.Time {
	return t.In(n.ref)
}

func (n *Normalizer) ToLocal(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}

func (n *Normalizer) ToStorage(t time.Time) time.Time {
	return t.UTC()
}
