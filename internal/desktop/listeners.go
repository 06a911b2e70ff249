package desktop

// listeners keeps callbacks in registration order. GLFW allows one callback
// per event, so the window fans each event out through one of these.
type listeners[F any] struct {
	next    int
	entries []listener[F]
}

type listener[F any] struct {
	id int
	fn F
}

func (l *listeners[F]) add(fn F) (remove func()) {
	l.next++
	id := l.next
	l.entries = append(l.entries, listener[F]{id: id, fn: fn})
	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

// snapshot lets a callback remove listeners while the event is dispatched.
func (l *listeners[F]) snapshot() []listener[F] {
	if len(l.entries) == 0 {
		return nil
	}
	return append([]listener[F](nil), l.entries...)
}
