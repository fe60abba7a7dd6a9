// Package health хранит отметку последнего завершённого опроса и отдаёт её
// по HTTP как проверку живости.
package health

import (
	"sync/atomic"
	"time"
)

// Clock — источник времени; в тестах подменяется.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock — настоящее время.
var SystemClock Clock = systemClock{}

// Stamp — минуты с эпохи на момент последнего завершённого тика, 0 — ещё не было.
// Пишет только цикл опроса, читает обработчик живости.
type Stamp struct {
	minutes atomic.Int64
}

// Minutes переводит время в минуты с эпохи.
func Minutes(t time.Time) int64 {
	return t.Unix() / 60
}

// Load возвращает сохранённые минуты.
func (s *Stamp) Load() int64 {
	return s.minutes.Load()
}

// Mark фиксирует время t. Отметка назад не двигается.
func (s *Stamp) Mark(t time.Time) {
	m := Minutes(t)
	for {
		cur := s.minutes.Load()
		if m <= cur {
			return
		}
		if s.minutes.CompareAndSwap(cur, m) {
			return
		}
	}
}

// Staleness — сколько минут прошло с последней отметки на момент now.
func (s *Stamp) Staleness(now time.Time) int64 {
	return Minutes(now) - s.Load()
}
