package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/VitaminP8/campusconnect/graph"
	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/metrics"
	"github.com/VitaminP8/campusconnect/internal/session"
)

// Server - JSON API поверх резолверов
type Server struct {
	resolver *graph.Resolver
	sessions *session.Registry
	tokens   *auth.Tokens
	metrics  *metrics.Metrics
}

func NewServer(resolver *graph.Resolver, sessions *session.Registry, tokens *auth.Tokens, m *metrics.Metrics) *Server {
	return &Server{
		resolver: resolver,
		sessions: sessions,
		tokens:   tokens,
		metrics:  m,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, fn HandlerFunc) {
		mux.Handle(pattern, s.metrics.Middleware(pattern, Wrap(fn)))
	}

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	handle("POST /auth/register", s.register)
	handle("POST /auth/login", s.login)
	handle("POST /auth/password", s.setPassword)
	handle("POST /auth/logout", s.logout)

	handle("GET /me", s.me)
	handle("PATCH /me", s.updateProfile)
	handle("GET /users", s.listUsers)
	handle("GET /users/{id}", s.getUser)
	handle("GET /users/{id}/posts", s.postsByAuthor)

	handle("GET /posts", s.listPosts)
	handle("GET /posts/featured", s.featured)
	handle("GET /posts/{id}", s.getPost)
	handle("POST /posts", s.createPost)
	handle("PATCH /posts/{id}", s.updatePost)
	handle("DELETE /posts/{id}", s.deletePost)
	handle("POST /posts/{id}/publish", s.publishPost)
	handle("POST /posts/{id}/unpublish", s.unpublishPost)
	handle("POST /posts/{id}/like", s.likePost)
	handle("GET /posts/{id}/comments", s.listComments)
	handle("POST /posts/{id}/comments", s.addComment)
	handle("DELETE /posts/{id}/comments/{commentId}", s.deleteComment)
	handle("GET /posts/{id}/comments/stream", s.streamComments)

	handle("GET /search", s.search)
	handle("GET /admin/stats", s.stats)

	return s.tokens.Middleware(s.sessions)(mux)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

type setPasswordRequest struct {
	IndexNumber string `json:"indexNumber"`
	NewPassword string `json:"newPassword"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	req, err := Decode[registerRequest](r)
	if err != nil {
		return err
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return fmt.Errorf("%v: %w", err, access.ErrValidation)
	}

	sess := s.sessions.Open()
	u, err := sess.Register(req.Name, req.Email, req.Password, role)
	if err != nil {
		s.sessions.Close(sess.ID)
		return err
	}
	return s.issue(w, sess, u, http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	req, err := Decode[loginRequest](r)
	if err != nil {
		return err
	}

	sess := s.sessions.Open()
	u, err := sess.Login(req.Credential, req.Password)
	if err != nil {
		s.sessions.Close(sess.ID)
		return err
	}
	return s.issue(w, sess, u, http.StatusOK)
}

func (s *Server) issue(w http.ResponseWriter, sess *session.Session, u *model.User, code int) error {
	token, err := s.tokens.Issue(u, sess.ID)
	if err != nil {
		s.sessions.Close(sess.ID)
		return err
	}
	WriteJSON(w, model.AuthPayload{Token: token, User: u}, code)
	return nil
}

func (s *Server) setPassword(w http.ResponseWriter, r *http.Request) error {
	req, err := Decode[setPasswordRequest](r)
	if err != nil {
		return err
	}
	if err := s.resolver.UserStore.SetNewPassword(req.IndexNumber, req.NewPassword); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) error {
	if _, err := auth.GetUserIDFromContext(r.Context()); err != nil {
		return err
	}
	if sid, ok := auth.SessionIDFromContext(r.Context()); ok {
		s.sessions.Close(sid)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) error {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		return err
	}
	u, err := s.resolver.Query().User(r.Context(), userID)
	if err != nil {
		return err
	}
	WriteJSON(w, u, http.StatusOK)
	return nil
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) error {
	patch, err := Decode[model.ProfilePatch](r)
	if err != nil {
		return err
	}
	u, err := s.resolver.Mutation().UpdateProfile(r.Context(), patch)
	if err != nil {
		return err
	}
	if sid, ok := auth.SessionIDFromContext(r.Context()); ok {
		if sess, ok := s.sessions.Get(sid); ok {
			sess.Refresh(u)
		}
	}
	WriteJSON(w, u, http.StatusOK)
	return nil
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := s.resolver.Query().Users(r.Context())
	if err != nil {
		return err
	}
	WriteJSON(w, users, http.StatusOK)
	return nil
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) error {
	u, err := s.resolver.Query().User(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, u, http.StatusOK)
	return nil
}

func (s *Server) postsByAuthor(w http.ResponseWriter, r *http.Request) error {
	posts, err := s.resolver.Query().PostsByAuthor(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filter := model.PostFilter{
		Query:    q.Get("query"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Sort:     model.SortMode(q.Get("sort")),
	}
	posts, err := s.resolver.Query().Posts(r.Context(), filter)
	if err != nil {
		return err
	}
	WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (s *Server) featured(w http.ResponseWriter, r *http.Request) error {
	posts, err := s.resolver.Query().Featured(r.Context())
	if err != nil {
		return err
	}
	WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) error {
	p, err := s.resolver.Query().Post(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusOK)
	return nil
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) error {
	input, err := Decode[model.NewPost](r)
	if err != nil {
		return err
	}
	p, err := s.resolver.Mutation().CreatePost(r.Context(), input)
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusCreated)
	return nil
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) error {
	patch, err := Decode[model.PostPatch](r)
	if err != nil {
		return err
	}
	p, err := s.resolver.Mutation().UpdatePost(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusOK)
	return nil
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.resolver.Mutation().DeletePostByID(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) publishPost(w http.ResponseWriter, r *http.Request) error {
	p, err := s.resolver.Mutation().PublishPost(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusOK)
	return nil
}

func (s *Server) unpublishPost(w http.ResponseWriter, r *http.Request) error {
	p, err := s.resolver.Mutation().UnpublishPost(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusOK)
	return nil
}

func (s *Server) likePost(w http.ResponseWriter, r *http.Request) error {
	p, err := s.resolver.Mutation().LikePost(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, p, http.StatusOK)
	return nil
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) error {
	comments, err := s.resolver.Query().Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	WriteJSON(w, comments, http.StatusOK)
	return nil
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) error {
	req, err := Decode[commentRequest](r)
	if err != nil {
		return err
	}
	c, err := s.resolver.Mutation().AddComment(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		return err
	}
	WriteJSON(w, c, http.StatusCreated)
	return nil
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.resolver.Mutation().DeleteComment(r.Context(), r.PathValue("id"), r.PathValue("commentId")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// streamComments отдает события комментариев поста как server-sent events
func (s *Server) streamComments(w http.ResponseWriter, r *http.Request) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming is not supported")
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, err := s.resolver.Subscription().CommentEvents(ctx, r.PathValue("id"))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				return nil
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) error {
	result, err := s.resolver.Query().Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		return err
	}
	WriteJSON(w, result, http.StatusOK)
	return nil
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := s.resolver.Query().Stats(r.Context())
	if err != nil {
		return err
	}
	WriteJSON(w, stats, http.StatusOK)
	return nil
}
