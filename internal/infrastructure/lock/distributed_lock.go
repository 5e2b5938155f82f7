package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 账本操作按用户维度加分布式锁：同一用户的余额/奖金变更串行化，
// 不同用户互不影响。锁之下数据库层仍用条件原子更新兜底，
// 锁丢失也不会造成超扣。

var ErrLockFailed = errors.New("获取分布式锁失败")

// DistributedLock Redis 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string        // 锁持有者标识，释放时验证防止误删
	expiration time.Duration // 过期时间，防止持有方崩溃导致死锁
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
// SET key value NX EX timeout：key 不存在时才能设置成功，保证互斥
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
// Lua 脚本保证"检查持有者+删除"的原子性，过期后被他人持有的锁不会被误删
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewLedgerLock 创建账本锁（按用户维度）
func NewLedgerLock(client *redis.Client, userID int64) *DistributedLock {
	key := fmt.Sprintf("ledger:lock:user:%d", userID)
	value := fmt.Sprintf("%d", time.Now().UnixNano())
	return NewDistributedLock(client, key, value, 30*time.Second)
}
