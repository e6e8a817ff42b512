package roomstate

import (
	"sync"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// Locks мьютексы по аудиториям. Записи удаляются, когда их никто не держит.
type Locks struct {
	mu    sync.Mutex
	rooms map[model.RoomKey]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{rooms: make(map[model.RoomKey]*roomLock)}
}

// Lock захватывает мьютекс аудитории и возвращает функцию освобождения
func (l *Locks) Lock(key model.RoomKey) (unlock func()) {
	l.mu.Lock()
	rl, ok := l.rooms[key]
	if !ok {
		rl = &roomLock{}
		l.rooms[key] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.rooms, key)
		}
		l.mu.Unlock()
	}
}

// Len число аудиторий, чьи мьютексы сейчас захвачены или ожидаются
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
