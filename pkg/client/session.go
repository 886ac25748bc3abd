package client

import "sync"

// Session хранит токен администратора для текущего сеанса.
// Явный объект сессии внедряется в каталог и модерацию вместо
// глобального флага из ambient-хранилища: наличие токена и есть
// признак административного режима.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession создает пустую (неадминистративную) сессию
func NewSession() *Session {
	return &Session{}
}

// SetToken сохраняет токен администратора
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token возвращает текущий токен (пустая строка если сессия не административная)
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAdmin возвращает true если в сессии есть токен
func (s *Session) IsAdmin() bool {
	return s.Token() != ""
}

// Clear сбрасывает сессию (например после ответа 401)
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
