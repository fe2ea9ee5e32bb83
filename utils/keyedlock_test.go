package utils

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerialisesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("2025-03-10")
			v := counter
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if len(km.locks) != 0 {
		t.Fatalf("lock table not drained: %d entries", len(km.locks))
	}
}

func TestKeyedMutexLockAllDedupes(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.LockAll("b", "a", "b")
	if len(km.locks) != 2 {
		t.Fatalf("locked %d keys, want 2", len(km.locks))
	}
	unlock()
	if len(km.locks) != 0 {
		t.Fatalf("lock table not drained: %d entries", len(km.locks))
	}
}
