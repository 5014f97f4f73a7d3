package resolver

// Subscribe returns a channel of view snapshots and a function that ends the
// subscription. The channel holds one pending snapshot; a slow reader only sees the
// latest. The current view, if any, is delivered immediately.
func (r *Resolver) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	if r.last != nil {
		ch <- *r.last
	}
	r.mu.Unlock()

	var cancelled bool
	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cancelled {
			return
		}
		cancelled = true
		delete(r.subs, id)
		close(ch)
	}
	return ch, cancel
}

// Last returns the most recently published view.
func (r *Resolver) Last() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return View{}, false
	}
	return *r.last, true
}

func (r *Resolver) publish(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = &v
	r.send(v)
}

// broadcast delivers v to subscribers without making it the current view. Stale
// fallbacks go through here so the last good view survives a store outage.
func (r *Resolver) broadcast(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send(v)
}

// send must be called with r.mu held.
func (r *Resolver) send(v View) {
	for _, ch := range r.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
