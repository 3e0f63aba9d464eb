package relay

// Subscribe registers a watcher for a room. The returned channel receives the
// changed-read response for every subsequent write to the room; slow watchers
// miss intermediate states rather than block writers, which is safe because
// any delivered response carries the full current state. The cancel func must
// be called when the watcher goes away.
func (s *Store) Subscribe(room string) (<-chan ReadResponse, func()) {
	ch := make(chan ReadResponse, 1)
	s.watchMu.Lock()
	set := s.watchers[room]
	if set == nil {
		set = map[chan ReadResponse]struct{}{}
		s.watchers[room] = set
	}
	set[ch] = struct{}{}
	s.watchMu.Unlock()

	cancel := func() {
		s.watchMu.Lock()
		if set, ok := s.watchers[room]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(s.watchers, room)
			}
		}
		s.watchMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) publish(room string, resp ReadResponse) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers[room] {
		// Replace a stale undelivered state instead of blocking.
		select {
		case ch <- resp:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- resp:
			default:
			}
		}
	}
}
