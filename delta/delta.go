// Package delta computes and replays structural changes between two flat
// configurations.
//
// Diff produces a Changeset of additions, deletions and updates; Apply replays
// a Changeset onto a base configuration without modifying it. Both are pure
// functions of their arguments, so they are safe to call from any number of
// goroutines on distinct inputs.
//
// Apply runs deletions, then updates, then additions. A Changeset produced by
// Diff never names a key in more than one list, so the order only matters for
// hand-written changesets: there the later phase wins.
package delta

import (
	"encoding/json"

	"github.com/teranos/umlconf/errors"
)

// Addition is a key present only in the new configuration.
type Addition struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Update is a key present in both configurations with different values.
type Update struct {
	Key  string `json:"key"`
	From any    `json:"from"`
	To   any    `json:"to"`
}

// UnmarshalJSON decodes the value in canonical form.
func (a *Addition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := strictUnmarshal(data, &raw); err != nil {
		return err
	}
	value, err := decodeRaw(raw.Value)
	if err != nil {
		return errors.Wrapf(err, "addition %q", raw.Key)
	}
	*a = Addition{Key: raw.Key, Value: value}
	return nil
}

// UnmarshalJSON decodes both values in canonical form.
func (u *Update) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key  string          `json:"key"`
		From json.RawMessage `json:"from"`
		To   json.RawMessage `json:"to"`
	}
	if err := strictUnmarshal(data, &raw); err != nil {
		return err
	}
	from, err := decodeRaw(raw.From)
	if err != nil {
		return errors.Wrapf(err, "update %q", raw.Key)
	}
	to, err := decodeRaw(raw.To)
	if err != nil {
		return errors.Wrapf(err, "update %q", raw.Key)
	}
	*u = Update{Key: raw.Key, From: from, To: to}
	return nil
}

// Changeset is the difference between two configurations. Each list keeps
// the order in which Diff found its entries.
type Changeset struct {
	Additions []Addition `json:"additions"`
	Deletions []string   `json:"deletions"`
	Updates   []Update   `json:"updates"`
}

// NewChangeset returns a changeset with empty, non-nil lists so it
// serializes as [] rather than null.
func NewChangeset() *Changeset {
	return &Changeset{
		Additions: []Addition{},
		Deletions: []string{},
		Updates:   []Update{},
	}
}

// IsEmpty reports whether the changeset changes nothing.
func (cs *Changeset) IsEmpty() bool {
	return cs == nil || len(cs.Additions)+len(cs.Deletions)+len(cs.Updates) == 0
}

// Stats summarizes a changeset for logging.
type Stats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Updates   int `json:"updates"`
}

// Stats returns the size of each list.
func (cs *Changeset) Stats() Stats {
	if cs == nil {
		return Stats{}
	}
	return Stats{
		Additions: len(cs.Additions),
		Deletions: len(cs.Deletions),
		Updates:   len(cs.Updates),
	}
}

// Diff computes the changeset that turns from into to. Additions and updates
// follow to's key order; deletions follow from's.
func Diff(from, to *Config) *Changeset {
	cs := NewChangeset()

	for _, e := range to.Entries() {
		prev, ok := from.Get(e.Key)
		switch {
		case !ok:
			cs.Additions = append(cs.Additions, Addition{Key: e.Key, Value: e.Value})
		case !ValuesEqual(prev, e.Value):
			cs.Updates = append(cs.Updates, Update{Key: e.Key, From: prev, To: e.Value})
		}
	}

	for _, key := range from.Keys() {
		if !to.Has(key) {
			cs.Deletions = append(cs.Deletions, key)
		}
	}

	return cs
}

// Apply returns base with cs replayed onto it. base is not modified.
// Deleting an absent key is a no-op. A nil changeset returns a copy of base.
func Apply(base *Config, cs *Changeset) *Config {
	result := base.Clone()
	if cs == nil {
		return result
	}

	for _, key := range cs.Deletions {
		result.Delete(key)
	}
	for _, u := range cs.Updates {
		result.Set(u.Key, u.To)
	}
	for _, a := range cs.Additions {
		result.Set(a.Key, a.Value)
	}

	return result
}
