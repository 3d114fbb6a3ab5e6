package rosca

import (
	"sort"
	"strconv"
	"sync"
)

// keyedLocks hands out one mutex per key. Entries are reference counted and
// dropped when the last holder unlocks.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// lock acquires the mutex for key and returns its release function.
func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// lockAll acquires several keys in sorted order, skipping duplicates, and
// releases them in reverse.
func (k *keyedLocks) lockAll(keys ...string) func() {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	var releases []func()
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		releases = append(releases, k.lock(key))
	}
	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}

func planKey(contribution string, term int) string {
	return "plan:" + contribution + ":" + strconv.Itoa(term)
}

func groupKey(id string) string  { return "group:" + id }
func memberKey(id string) string { return "member:" + id }
