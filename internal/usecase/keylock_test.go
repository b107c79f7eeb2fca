package usecase_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"stockmanager/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutexSerializesSameKey(t *testing.T) {
	keys := usecase.NewKeyMutex()

	var inside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys.Lock("rice|KG_75|c1")
			defer keys.Unlock("rice|KG_75|c1")

			// 同一キーのクリティカルセクションに同時に2本入らないこと
			assert.Equal(t, int32(1), atomic.AddInt32(&inside, 1))
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()
}

func TestKeyMutexIndependentKeys(t *testing.T) {
	keys := usecase.NewKeyMutex()

	// 別キーを押さえたままでもこちらのキーは取れる
	keys.Lock("a")
	done := make(chan struct{})
	go func() {
		keys.Lock("b")
		keys.Unlock("b")
		close(done)
	}()
	<-done
	keys.Unlock("a")
}

func TestKeyMutexReusableAfterRelease(t *testing.T) {
	keys := usecase.NewKeyMutex()

	for i := 0; i < 3; i++ {
		keys.Lock("k")
		keys.Unlock("k")
	}
}
