package health

import "lpbot/internal/worker"

// PartyCounter возвращает число отслеживаемых вечеринок
type PartyCounter interface {
	Len() int
}

// WorkerStats возвращает метрики пула воркеров
type WorkerStats interface {
	Stats() worker.Stats
}
