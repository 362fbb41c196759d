package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	var locks userLocks

	unlockFirst := locks.lock(1)
	unlockSecond := locks.lock(2)
	assert.Equal(t, 2, locks.size())

	unlockFirst()
	unlockSecond()
	assert.Equal(t, 0, locks.size())
}

func TestUserLocks_SameUserWaits(t *testing.T) {
	var locks userLocks

	unlock := locks.lock(1)
	acquired := make(chan struct{})
	go func() {
		release := locks.lock(1)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 10*time.Millisecond)
}
