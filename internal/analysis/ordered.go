package analysis

import (
	"sort"
	"strconv"
)

// ordered is a map that remembers the order keys were first added in.
type ordered[V any] struct {
	keys   []string
	values map[string]*V
}

func newOrdered[V any]() *ordered[V] {
	return &ordered[V]{values: make(map[string]*V)}
}

// get returns the value for key, creating it with init on first use. init
// may be nil for a zero value.
func (o *ordered[V]) get(key string, init func() V) *V {
	if v, ok := o.values[key]; ok {
		return v
	}
	v := new(V)
	if init != nil {
		*v = init()
	}
	o.keys = append(o.keys, key)
	o.values[key] = v
	return v
}

func (o *ordered[V]) lookup(key string) (*V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *ordered[V]) entries() []Entry[V] {
	out := make([]Entry[V], 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Entry[V]{Key: k, Value: *o.values[k]})
	}
	return out
}

type timed interface {
	timeMs() int64
}

func byTime[V timed](o *ordered[V]) []Entry[V] {
	out := o.entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.timeMs() > out[j].Value.timeMs()
	})
	return out
}

// byYear flattens a year-keyed collection, sorting years in ascending order
// and each year's entries by time.
func byYear[V timed](years *ordered[ordered[V]]) []Entry[[]Entry[V]] {
	out := make([]Entry[[]Entry[V]], 0, len(years.keys))
	for _, y := range years.keys {
		out = append(out, Entry[[]Entry[V]]{Key: y, Value: byTime(years.values[y])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Key)
		b, _ := strconv.Atoi(out[j].Key)
		return a < b
	})
	return out
}

func byCount(o *ordered[int64]) []Entry[int64] {
	out := o.entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

func newYear[V any]() ordered[V] {
	return *newOrdered[V]()
}
