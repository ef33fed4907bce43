// Package feed fans newly created comments out to live subscribers of a post.
package feed

import (
	"sync"

	"github.com/google/uuid"

	"github.com/UkralStul/sportalk/internal/domain"
)

// Hub хранит каналы подписчиков на комментарии.
type Hub struct {
	mu     sync.RWMutex
	buffer int
	//          map[postID] map[subscriberID] channel
	subs map[string]map[string]chan *domain.Comment
}

// NewHub creates a hub whose subscriber channels hold buffer comments.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[string]map[string]chan *domain.Comment),
	}
}

// Subscribe registers a subscriber for postID. cancel must be called exactly
// once; it unregisters and closes the channel.
func (h *Hub) Subscribe(postID string) (<-chan *domain.Comment, func()) {
	ch := make(chan *domain.Comment, h.buffer)
	subID := uuid.NewString()

	h.mu.Lock()
	if h.subs[postID] == nil {
		h.subs[postID] = make(map[string]chan *domain.Comment)
	}
	h.subs[postID][subID] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if postSubs, ok := h.subs[postID]; ok {
			delete(postSubs, subID)
			if len(postSubs) == 0 {
				delete(h.subs, postID)
			}
		}
		close(ch)
	}
	return ch, cancel
}

// Publish delivers c to every subscriber of its post without blocking. A
// subscriber whose buffer is full misses the comment.
func (h *Hub) Publish(c *domain.Comment) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[c.PostID] {
		select {
		case ch <- c:
		default:
			// Клиент не успевает читать, пропускаем
		}
	}
}

// Subscribers reports how many subscribers postID currently has.
func (h *Hub) Subscribers(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[postID])
}
