package slotlock

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLocker блокировка в памяти процесса.
// Подходит для одного экземпляра сервиса; для нескольких используйте RedisLocker.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*memorySlot
}

type memorySlot struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker создает блокировку в памяти
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*memorySlot)}
}

// Lock ждет освобождения ключа или отмены контекста
func (l *MemoryLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	slot := l.acquireSlot(key)

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key)
		return nil, fmt.Errorf("%w: key=%s: %v", ErrLockTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.releaseSlot(key)
		})
	}, nil
}

func (l *MemoryLocker) acquireSlot(key string) *memorySlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &memorySlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *MemoryLocker) releaseSlot(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}
