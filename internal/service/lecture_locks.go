package service

import "sync"

// lectureLocks hands out one mutex per lecture id. Entries are dropped once
// no goroutine holds or waits on them.
type lectureLocks struct {
	mu    sync.Mutex
	locks map[int64]*lectureLock
}

type lectureLock struct {
	mu   sync.Mutex
	refs int
}

func newLectureLocks() *lectureLocks {
	return &lectureLocks{locks: make(map[int64]*lectureLock)}
}

// lock blocks until the lecture is free and returns its unlock func.
func (l *lectureLocks) lock(id int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lectureLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *lectureLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
