// Package watch はストア更新のたびに全件スナップショットを購読者へ
// プッシュ配信するハブを提供します。購読者は差分ではなく常に最新の
// 完全なスナップショットを受け取ります。
package watch

import "sync"

// Hub は 1 種類のコレクションのスナップショット配信を管理します。
// 配信は deliverMu で直列化され、各購読者が最後に受け取るスナップショットは
// 必ずその時点の最新です。
type Hub[T any] struct {
	mu          sync.RWMutex
	deliverMu   sync.Mutex
	nextID      int
	subscribers map[int]func(T)
	latest      T
	hasLatest   bool
}

// NewHub は Hub を生成します。
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subscribers: make(map[int]func(T))}
}

// Subscribe は購読を登録し、解除用の関数を返します。既に配信済みの
// スナップショットがあれば登録時に 1 回通知します。再通知は配信ロックの
// 中で最新を読み直すため、並行する Publish に追い越されて古い状態で
// 止まることはありません（同じスナップショットが重複して届くことは
// あります）。
func (h *Hub[T]) Subscribe(onChange func(T)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = onChange
	h.mu.Unlock()

	h.deliverMu.Lock()
	h.mu.RLock()
	snapshot := h.latest
	replay := h.hasLatest
	h.mu.RUnlock()
	if replay {
		onChange(snapshot)
	}
	h.deliverMu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}
}

// Publish は最新スナップショットを記録し、全購読者へ同期的に通知します。
func (h *Hub[T]) Publish(snapshot T) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.mu.Lock()
	h.latest = snapshot
	h.hasLatest = true
	callbacks := make([]func(T), 0, len(h.subscribers))
	for _, cb := range h.subscribers {
		callbacks = append(callbacks, cb)
	}
	h.mu.Unlock()

	for _, cb := range callbacks {
		cb(snapshot)
	}
}

// Latest は最後に配信されたスナップショットを返します。まだ一度も配信が
// なければ ok が false になります。
func (h *Hub[T]) Latest() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}
