package node

import "reflect"

type StructPair struct{ Src, Dst reflect.Type }

// Dealer is a work queue that hands out every key at most once.
type Dealer[K comparable] struct {
	needs []K
	done  map[K]struct{}
}

// NextNeeds pops keys in the order they were requested.
func (d *Dealer[K]) NextNeeds() (key K, ok bool) {
	for len(d.needs) > 0 {
		key, d.needs = d.needs[0], d.needs[1:]

		if _, exists := d.done[key]; !exists {
			d.Done(key)

			return key, true
		}
	}

	var zero K
	return zero, false
}

func (d *Dealer[K]) Needs(key K) {
	if _, exists := d.done[key]; !exists {
		d.needs = append(d.needs, key)
	}
}

func (d *Dealer[K]) Done(key K) {
	if d.done == nil {
		d.done = make(map[K]struct{})
	}

	d.done[key] = struct{}{}
}
