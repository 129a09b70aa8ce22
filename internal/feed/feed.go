// Package feed содержит чистые функции выборки постов: избранное,
// фильтрация со стандартными сортировками, поиск и статистика.
package feed

import (
	"sort"
	"strings"

	"github.com/VitaminP8/campusconnect/graph/model"
)

const FeaturedLimit = 5

// AuthorNames - id пользователя -> имя, для поиска по автору
type AuthorNames map[string]string

func NamesOf(users []*model.User) AuthorNames {
	names := make(AuthorNames, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func published(posts []*model.Post) []*model.Post {
	out := []*model.Post{}
	for _, p := range posts {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out
}

// Featured - до пяти опубликованных постов с наибольшим числом лайков.
// При равенстве сохраняется исходный порядок.
func Featured(posts []*model.Post) []*model.Post {
	out := published(posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Likes > out[j].Likes
	})
	if len(out) > FeaturedLimit {
		out = out[:FeaturedLimit]
	}
	return out
}

func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), query)
}

// List фильтрует опубликованные посты по запросу, категории и тегу и сортирует
func List(posts []*model.Post, filter model.PostFilter, names AuthorNames) []*model.Post {
	out := published(posts)

	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		matched := out[:0]
		for _, p := range out {
			if containsFold(p.Title, q) || containsFold(p.Excerpt, q) ||
				containsFold(p.Content, q) || containsFold(names[p.AuthorID], q) {
				matched = append(matched, p)
			}
		}
		out = matched
	}

	if filter.Category != "" {
		matched := out[:0]
		for _, p := range out {
			if p.Category == filter.Category {
				matched = append(matched, p)
			}
		}
		out = matched
	}

	if filter.Tag != "" {
		matched := out[:0]
		for _, p := range out {
			if hasTag(p, filter.Tag) {
				matched = append(matched, p)
			}
		}
		out = matched
	}

	Sort(out, filter.Sort)
	return out
}

// Sort сортирует посты на месте, пустой режим означает newest
func Sort(posts []*model.Post, mode model.SortMode) {
	var less func(a, b *model.Post) bool
	switch mode {
	case model.SortOldest:
		less = func(a, b *model.Post) bool { return a.Timestamp().Before(b.Timestamp()) }
	case model.SortMostLiked:
		less = func(a, b *model.Post) bool { return a.Likes > b.Likes }
	case model.SortMostCommented:
		less = func(a, b *model.Post) bool { return len(a.Comments) > len(b.Comments) }
	default:
		less = func(a, b *model.Post) bool { return a.Timestamp().After(b.Timestamp()) }
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return less(posts[i], posts[j])
	})
}

func hasTag(p *model.Post, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Search ищет по опубликованным постам (в том числе по тегам и категории)
// и по пользователям. Пустой запрос ничего не находит.
func Search(posts []*model.Post, users []*model.User, query string) model.SearchResult {
	result := model.SearchResult{Posts: []*model.Post{}, Users: []*model.User{}}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return result
	}

	names := NamesOf(users)
	for _, p := range published(posts) {
		if containsFold(p.Title, q) || containsFold(p.Content, q) || containsFold(p.Excerpt, q) ||
			containsFold(p.Category, q) || containsFold(names[p.AuthorID], q) || anyFold(p.Tags, q) {
			result.Posts = append(result.Posts, p)
		}
	}

	result.Users = SearchUsers(users, query)
	return result
}

func SearchUsers(users []*model.User, query string) []*model.User {
	out := []*model.User{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}

	for _, u := range users {
		bio := ""
		if u.Bio != nil {
			bio = *u.Bio
		}
		if containsFold(u.Name, q) || containsFold(u.Role.String(), q) ||
			containsFold(bio, q) || anyFold(u.Interests, q) {
			out = append(out, u)
		}
	}
	return out
}

func anyFold(values []string, q string) bool {
	for _, v := range values {
		if containsFold(v, q) {
			return true
		}
	}
	return false
}

// Summarize собирает статистику для панели администратора
func Summarize(posts []*model.Post, users []*model.User) model.Stats {
	stats := model.Stats{
		TotalPosts:      len(posts),
		TotalUsers:      len(users),
		UsersByRole:     make(map[model.Role]int),
		PostsByCategory: make(map[string]int),
	}

	for _, p := range posts {
		if p.IsPublished {
			stats.PublishedPosts++
		} else {
			stats.DraftPosts++
		}
		stats.TotalComments += len(p.Comments)
		stats.TotalLikes += p.Likes
		stats.PostsByCategory[p.Category]++
	}

	for _, u := range users {
		stats.UsersByRole[u.Role]++
	}

	return stats
}
