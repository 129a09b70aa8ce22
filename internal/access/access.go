package access

import (
	"errors"

	"github.com/VitaminP8/campusconnect/graph/model"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)

// Principal - аутентифицированный пользователь, от имени которого выполняется операция
type Principal struct {
	UserID string
	Role   model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type ResourceKind int

const (
	KindPost ResourceKind = iota
	KindComment
)

// Resource описывает объект, который пытаются изменить.
// Для комментария PostAuthorID - автор поста, к которому он относится.
type Resource struct {
	Kind         ResourceKind
	AuthorID     string
	PostAuthorID string
}

func PostResource(p *model.Post) Resource {
	return Resource{Kind: KindPost, AuthorID: p.AuthorID}
}

func CommentResource(p *model.Post, c *model.Comment) Resource {
	return Resource{Kind: KindComment, AuthorID: c.AuthorID, PostAuthorID: p.AuthorID}
}

// CanModify - единая проверка прав на изменение/удаление поста или комментария
func CanModify(p Principal, r Resource) bool {
	if p.UserID == "" {
		return false
	}
	if p.IsAdmin() || p.UserID == r.AuthorID {
		return true
	}
	// автор поста может удалять комментарии под своим постом
	return r.Kind == KindComment && p.UserID == r.PostAuthorID
}
