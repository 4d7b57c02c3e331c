package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseHoldScript удаляет удержание, только если им владеет тот же студент
var releaseHoldScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotHoldRepository короткие удержания слотов на время отправки записи.
// Без клиента Redis все операции считаются успешными.
type SlotHoldRepository struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewSlotHoldRepository(rdb *redis.Client, ttl time.Duration, prefix string) *SlotHoldRepository {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "slothold"
	}
	return &SlotHoldRepository{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *SlotHoldRepository) key(slotID string) string {
	return r.prefix + ":" + slotID
}

func holder(studentID int64) string {
	return fmt.Sprintf("%d", studentID)
}

// Acquire пытается удержать слот за студентом. Повторный вызов тем же студентом успешен.
func (r *SlotHoldRepository) Acquire(ctx context.Context, slotID string, studentID int64) (bool, error) {
	if r == nil || r.rdb == nil {
		return true, nil
	}

	ok, err := r.rdb.SetNX(ctx, r.key(slotID), holder(studentID), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire slot hold: %w", err)
	}
	if ok {
		return true, nil
	}

	current, err := r.rdb.Get(ctx, r.key(slotID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read slot hold: %w", err)
	}

	return current == holder(studentID), nil
}

// Release снимает удержание, если оно принадлежит студенту
func (r *SlotHoldRepository) Release(ctx context.Context, slotID string, studentID int64) error {
	if r == nil || r.rdb == nil {
		return nil
	}

	if err := releaseHoldScript.Run(ctx, r.rdb, []string{r.key(slotID)}, holder(studentID)).Err(); err != nil {
		return fmt.Errorf("release slot hold: %w", err)
	}

	return nil
}
