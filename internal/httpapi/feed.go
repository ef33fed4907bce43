package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/UkralStul/sportalk/internal/dataloader"
)

const writeWait = 5 * time.Second

// commentFeed streams comments created on a post to a websocket client until
// either side goes away.
func (s *Server) commentFeed(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	// Проверяем, существует ли пост, прежде чем подписываться
	if _, err := s.svc.Posts.Get(r.Context(), postID); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "post_id", postID, "error", err)
		return
	}
	defer conn.Close()

	comments, cancel := s.hub.Subscribe(postID)
	defer cancel()

	// Клиент ничего не шлёт, читаем только чтобы заметить закрытие
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	loaders := dataloader.For(r.Context())
	ping := time.NewTicker(s.feed.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case c := <-comments:
			// копия: один и тот же комментарий уходит всем подписчикам
			out := *c
			if author, err := loaders.User(r.Context(), c.AuthorID); err == nil {
				out.Author = author
			} else {
				s.log.Debug("comment author not resolved", "comment_id", c.ID, "error", err)
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(&out); err != nil {
				s.log.Debug("comment feed write failed", "post_id", postID, "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
