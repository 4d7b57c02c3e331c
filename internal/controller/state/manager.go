package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
)

var _ callbacktypes.StateManager = (*Manager)(nil)

// Manager управляет состояниями пользователей в памяти.
// Записи без активности дольше idleTTL считаются отсутствующими.
type Manager struct {
	mu      sync.RWMutex
	states  map[int64]*UserData // telegramID -> UserData
	idleTTL time.Duration
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		states:  make(map[int64]*UserData),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// lookup возвращает живую запись; вызывать под блокировкой
func (sm *Manager) lookup(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists || sm.now().Sub(userData.TouchedAt) > sm.idleTTL {
		return nil, false
	}
	return userData, true
}

// entry возвращает запись, создавая новую вместо отсутствующей или устаревшей
func (sm *Manager) entry(telegramID int64) *UserData {
	userData, ok := sm.lookup(telegramID)
	if !ok {
		userData = &UserData{
			State: callbacktypes.StateNone,
			Data:  make(map[string]interface{}),
		}
		sm.states[telegramID] = userData
	}
	userData.TouchedAt = sm.now()
	return userData
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) callbacktypes.UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.lookup(telegramID); ok {
		return userData.State
	}
	return callbacktypes.StateNone
}

// SetState устанавливает состояние пользователя. Данные диалога сохраняются.
func (sm *Manager) SetState(telegramID int64, state callbacktypes.UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).State = state
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.lookup(telegramID); ok {
		value, exists := userData.Data[key]
		return value, exists
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).Data[key] = value
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Sweep удаляет устаревшие записи, возвращает их количество
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id := range sm.states {
		if _, ok := sm.lookup(id); !ok {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}
