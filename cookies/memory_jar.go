package cookies

import (
	"sort"
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// MemoryJar is a process-local Jar. Expired cookies are purged lazily on
// read.
type MemoryJar struct {
	cookies map[string]Cookie
	lock    sync.RWMutex
}

var _ Jar = (*MemoryJar)(nil)

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: make(map[string]Cookie)}
}

func (j *MemoryJar) Set(cookie Cookie) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.cookies[cookie.Name] = cookie
}

func (j *MemoryJar) Get(name string) (Cookie, bool) {
	j.lock.Lock()
	defer j.lock.Unlock()

	c, ok := j.cookies[name]
	if !ok {
		return Cookie{}, false
	}
	if c.Expired(NowTimeFunc()) {
		delete(j.cookies, name)
		return Cookie{}, false
	}
	return c, true
}

func (j *MemoryJar) Delete(name string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	delete(j.cookies, name)
}

func (j *MemoryJar) List() []Cookie {
	j.lock.Lock()
	defer j.lock.Unlock()

	now := NowTimeFunc()
	list := make([]Cookie, 0, len(j.cookies))
	for name, c := range j.cookies {
		if c.Expired(now) {
			delete(j.cookies, name)
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, k int) bool { return list[i].Name < list[k].Name })
	return list
}

func (j *MemoryJar) Clear() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.cookies = make(map[string]Cookie)
}
