// Package slotlock сериализует операции над расписанием одного бизнеса на одну дату.
// Проверка пересечений и вставка бронирования выполняются под одной блокировкой.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLockTimeout возвращается, когда блокировку не удалось получить до отмены контекста
var ErrLockTimeout = errors.New("slotlock: failed to acquire lock")

// UnlockFunc освобождает блокировку
type UnlockFunc func()

// Locker блокировка по ключу
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// Key строит ключ блокировки для расписания бизнеса на дату
func Key(businessID int64, date time.Time) string {
	return fmt.Sprintf("booking:%d:%s", businessID, date.Format("2006-01-02"))
}
