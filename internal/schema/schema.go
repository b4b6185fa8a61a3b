package schema

import (
	"strconv"
	"strings"
)

// DefaultDatabase is the database every environment provisions unless overridden.
const DefaultDatabase = "liveAirlines"

const (
	CollAirlabs        = "airlabs"
	CollOpensky        = "opensky"
	CollDataAggregated = "data_aggregated"
)

// Direction of a single indexed field.
const (
	Ascending  = 1
	Descending = -1
)

// PrimaryIndexName is the implicit _id index MongoDB creates for every collection.
const PrimaryIndexName = "_id_"

// KeyField is one field of an index key, in declaration order.
type KeyField struct {
	Field string
	Order int
}

// IndexSpec describes a secondary index. Key order is significant.
type IndexSpec struct {
	Name string
	Keys []KeyField
}

// CollectionSpec is a collection together with the indexes that must exist on it.
type CollectionSpec struct {
	Name    string
	Indexes []IndexSpec
}

// NewIndex builds an IndexSpec named the way the server names indexes by
// default (field_order joined by underscores), e.g. time_-1_flight_icao_1.
func NewIndex(keys ...KeyField) IndexSpec {
	return IndexSpec{Name: DefaultIndexName(keys), Keys: keys}
}

func Asc(field string) KeyField  { return KeyField{Field: field, Order: Ascending} }
func Desc(field string) KeyField { return KeyField{Field: field, Order: Descending} }

func DefaultIndexName(keys []KeyField) string {
	parts := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		parts = append(parts, k.Field, strconv.Itoa(k.Order))
	}
	return strings.Join(parts, "_")
}

// SameKeys reports whether two key lists cover the same fields, in the same
// order and with the same directions.
func SameKeys(a, b []KeyField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Target returns the liveAirlines layout in provisioning order.
//
// A fresh slice is built on every call so callers (and parallel tests) never
// share the backing arrays.
func Target() []CollectionSpec {
	return []CollectionSpec{
		{
			Name: CollAirlabs,
			Indexes: []IndexSpec{
				NewIndex(Desc("time"), Asc("flight_icao")),
				NewIndex(Asc("flight_icao")),
			},
		},
		{
			Name: CollOpensky,
			Indexes: []IndexSpec{
				NewIndex(Desc("time"), Asc("airlab_id")),
				NewIndex(Asc("callsign")),
				NewIndex(Asc("airlab_id")),
			},
		},
		{
			Name: CollDataAggregated,
		},
	}
}

// CollectionNames lists the collection names of a layout in order.
func CollectionNames(specs []CollectionSpec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}
