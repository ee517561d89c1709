package editor

import "sync"

// Feed delivers values from one producer to any number of subscribers,
// in emission order.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   []subscriber[T]
	nextID int

	// deliver serializes Send so values reach subscribers in order.
	deliver sync.Mutex
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

// Send delivers v to every current subscriber in subscription order.
func (f *Feed[T]) Send(v T) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	subs := make([]subscriber[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close removes all subscribers.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = nil
}

func (f *Feed[T]) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}
