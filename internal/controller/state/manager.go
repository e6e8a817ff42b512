package state

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultSize = 4096
	defaultTTL  = 15 * time.Minute
)

// Manager управляет состояниями пользователей.
// Брошенные диалоги вытесняются по времени жизни.
type Manager struct {
	mu     sync.Mutex
	states *expirable.LRU[int64, *UserData] // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager(size int, ttl time.Duration) *Manager {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		states: expirable.NewLRU[int64, *UserData](size, nil, ttl),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, ok := sm.states.Peek(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя; StateNone удаляет запись
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		sm.states.Remove(telegramID)
		return
	}

	userData := sm.entry(telegramID)
	userData.State = state
	sm.states.Add(telegramID, userData)
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, ok := sm.states.Peek(telegramID); ok {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// GetString получает строковое значение из данных пользователя
func (sm *Manager) GetString(telegramID int64, key string) (string, bool) {
	value, ok := sm.GetData(telegramID, key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData := sm.entry(telegramID)
	userData.Data[key] = value
	sm.states.Add(telegramID, userData)
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states.Remove(telegramID)
}

// Len количество активных диалогов
func (sm *Manager) Len() int {
	return sm.states.Len()
}

func (sm *Manager) entry(telegramID int64) *UserData {
	if userData, ok := sm.states.Peek(telegramID); ok {
		return userData
	}
	return &UserData{
		State: StateNone,
		Data:  make(map[string]any),
	}
}
