package sync

import (
	"hireflow_backend/internal/logger"
)

// Dispatcher принимает события "кандидат изменился" из мутирующих
// транзакций. Dispatch никогда не блокирует вызывающего: при
// переполненной очереди событие отбрасывается с логом - зеркало
// догонит на следующей мутации.
type Dispatcher struct {
	queue chan string
}

func NewDispatcher(queueSize int) *Dispatcher {
	return &Dispatcher{
		queue: make(chan string, queueSize),
	}
}

// Dispatch ставит кандидата в очередь на зеркалирование (fire-and-forget)
func (d *Dispatcher) Dispatch(candidateID string) {
	select {
	case d.queue <- candidateID:
	default:
		logger.Warn("sync queue full, dropping event", "candidate_id", candidateID)
	}
}

// Queue отдает канал воркеру
func (d *Dispatcher) Queue() <-chan string {
	return d.queue
}
