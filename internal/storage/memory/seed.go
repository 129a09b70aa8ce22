package memory

import (
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/post"
)

const SeedPassword = "password"

var SeedPendingIndexNumbers = []string{"54321", "67890", "98765"}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func str(s string) *string {
	return &s
}

func SeedUsers() []*model.User {
	return []*model.User{
		{
			ID:        "1",
			Name:      "Dr. Alex Johnson",
			Email:     "alex.johnson@campus.edu",
			Role:      model.RoleEducator,
			Avatar:    str("https://i.pravatar.cc/150?img=11"),
			Bio:       str("Professor of Computer Science with 15 years of experience in AI and machine learning."),
			CreatedAt: day("2023-01-01"),
			Interests: []string{"AI", "Machine Learning", "Education Technology"},
			Following: []string{"2", "4"},
			Followers: []string{"2", "3", "5"},
		},
		{
			ID:          "2",
			Name:        "Emma Smith",
			Email:       "emma.smith@campus.edu",
			Role:        model.RoleStudent,
			Avatar:      str("https://i.pravatar.cc/150?img=5"),
			Bio:         str("Third-year Computer Science student passionate about web development and UX design."),
			CreatedAt:   day("2023-02-15"),
			Interests:   []string{"Web Development", "UX Design", "Programming"},
			Following:   []string{"1", "3"},
			Followers:   []string{"1", "4"},
			IndexNumber: str("12345"),
		},
		{
			ID:        "3",
			Name:      "Prof. Samantha Lee",
			Email:     "samantha.lee@campus.edu",
			Role:      model.RoleEducator,
			Avatar:    str("https://i.pravatar.cc/150?img=9"),
			Bio:       str("Department Chair of Environmental Science, researching sustainable urban development."),
			CreatedAt: day("2022-12-10"),
			Interests: []string{"Environmental Science", "Sustainability", "Urban Planning"},
			Following: []string{"1"},
			Followers: []string{"2", "5"},
		},
		{
			ID:        "4",
			Name:      "Marcus Chen",
			Email:     "marcus.chen@campus.edu",
			Role:      model.RoleStudent,
			Avatar:    str("https://i.pravatar.cc/150?img=3"),
			Bio:       str("Graduate student in Physics, focusing on quantum computing applications."),
			CreatedAt: day("2023-03-20"),
			Interests: []string{"Physics", "Quantum Computing", "Mathematics"},
			Following: []string{"1", "5"},
			Followers: []string{"2"},
		},
		{
			ID:        "5",
			Name:      "Admin User",
			Email:     "admin@campus.edu",
			Role:      model.RoleAdmin,
			Avatar:    str("https://i.pravatar.cc/150?img=12"),
			Bio:       str("System administrator and moderator for Campus Connect."),
			CreatedAt: day("2022-01-01"),
			Interests: []string{"System Administration", "Education Technology"},
			Following: []string{"3"},
			Followers: []string{"1", "4"},
		},
	}
}

func seedPost(id, authorID, title, content, category string, tags []string, created, published string, likes int, image string) *model.Post {
	p := &model.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Excerpt:   post.DeriveExcerpt(content),
		AuthorID:  authorID,
		CreatedAt: day(created),
		UpdatedAt: day(created),
		Category:  category,
		Tags:      tags,
		ImageURL:  str(image),
		Likes:     likes,
		Comments:  []*model.Comment{},
		IsDraft:   true,
	}
	if published != "" {
		pub := day(published)
		p.PublishedAt = &pub
		p.UpdatedAt = pub
		p.IsPublished = true
		p.IsDraft = false
	}
	return p
}

func SeedPosts() []*model.Post {
	posts := []*model.Post{
		seedPost("1", "1", "The Future of AI in Education",
			"<h1>The Future of AI in Education</h1><p>Artificial intelligence is transforming how we teach and learn in higher education. This post explores current trends and future possibilities.</p><h2>Current Applications</h2><ul><li>Personalized learning paths</li><li>Automated grading systems</li><li>Intelligent tutoring systems</li></ul><h2>Ethical Considerations</h2><ol><li>Data privacy concerns</li><li>Algorithmic bias and fairness</li></ol>",
			"Computer Science", []string{"AI", "Education", "Technology", "Ethics"},
			"2023-06-10", "2023-06-12", 42, "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?auto=format&fit=crop&w=800"),
		seedPost("2", "3", "Sustainable Urban Development: Case Studies",
			"<h1>Sustainable Urban Development: Case Studies</h1><p>This post examines successful sustainable urban development projects and extracts key principles that can be applied to future planning.</p><h2>Copenhagen: A Model for Urban Sustainability</h2><ul><li>Comprehensive cycling infrastructure</li><li>Green roof policies</li></ul>",
			"Environmental Science", []string{"Sustainability", "Urban Planning", "Climate Change", "Research"},
			"2023-06-05", "2023-06-08", 37, "https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d?auto=format&fit=crop&w=800"),
		seedPost("3", "4", "Introduction to Quantum Computing Principles",
			"<h1>Introduction to Quantum Computing Principles</h1><p>This post provides an accessible introduction to quantum computing concepts for computer science students.</p><h2>Quantum Bits (Qubits)</h2><p>Unlike classical bits, qubits can exist in a superposition of states.</p>",
			"Physics", []string{"Quantum Computing", "Physics", "Computer Science", "Technology"},
			"2023-06-14", "2023-06-14", 29, "https://images.unsplash.com/photo-1649972904349-6e44c42644a7?auto=format&fit=crop&w=800"),
		seedPost("4", "1", "Effective Research Methods for Undergraduate Students",
			"<h1>Effective Research Methods for Undergraduate Students</h1><p>This guide aims to help undergraduate students develop strong research skills applicable across various disciplines.</p><h2>Defining Your Research Question</h2><ul><li>Specific and focused</li><li>Relevant to your field</li></ul>",
			"Research Methodology", []string{"Research", "Education", "Academic Writing", "Research Methodology"},
			"2023-05-28", "2023-05-30", 51, "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?auto=format&fit=crop&w=800"),
		seedPost("5", "2", "Web Development Trends for 2023",
			"<h1>Web Development Trends for 2023</h1><p>An exploration of emerging trends and technologies that are shaping web development in 2023.</p><h2>Progressive Web Applications (PWAs)</h2><ul><li>Offline functionality</li><li>Push notifications</li></ul>",
			"Computer Science", []string{"Web Development", "Programming", "Technology", "JavaScript"},
			"2023-06-02", "2023-06-03", 34, "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?auto=format&fit=crop&w=800"),
		seedPost("6", "3", "Building Resilient Academic Communities Post-Pandemic",
			"Draft content about building academic communities...",
			"Education", []string{"Education", "Community", "Academic Life", "Post-Pandemic"},
			"2023-06-20", "", 0, "https://images.unsplash.com/photo-1522202176988-66273c2fd55f?auto=format&fit=crop&w=800"),
	}

	comments := []*model.Comment{
		{ID: "1", PostID: "1", AuthorID: "2", Likes: 5, CreatedAt: at("2023-06-15T14:24"), UpdatedAt: at("2023-06-15T14:24"),
			Content: "This is a fascinating perspective on AI ethics. I'd love to see more research in this area."},
		{ID: "2", PostID: "1", AuthorID: "4", Likes: 3, CreatedAt: at("2023-06-16T09:12"), UpdatedAt: at("2023-06-16T09:42"),
			Content: "Have you considered the implications of quantum computing on current encryption methods? This could be a great follow-up topic."},
		{ID: "3", PostID: "2", AuthorID: "2", Likes: 7, CreatedAt: at("2023-06-17T16:05"), UpdatedAt: at("2023-06-17T16:05"),
			Content: "Your explanation of urban sustainability metrics really helped clarify my understanding. Thank you!"},
		{ID: "4", PostID: "3", AuthorID: "1", Likes: 4, CreatedAt: at("2023-06-18T11:30"), UpdatedAt: at("2023-06-18T11:30"),
			Content: "I'm applying some of these techniques in my own research. Would love to discuss methodology further."},
		{ID: "5", PostID: "4", AuthorID: "3", Likes: 6, CreatedAt: at("2023-06-19T15:45"), UpdatedAt: at("2023-06-19T15:45"),
			Content: "This connects really well with the paper we discussed in last week's seminar. Great insights!"},
	}

	byID := make(map[string]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	for _, c := range comments {
		p := byID[c.PostID]
		p.Comments = append(p.Comments, c)
	}

	return posts
}

// Seed заполняет хранилища начальными данными
func Seed(users *UserMemoryStorage, posts *PostMemoryStorage) error {
	for _, u := range SeedUsers() {
		if err := users.insert(u, SeedPassword); err != nil {
			return err
		}
	}
	users.addPending(SeedPendingIndexNumbers...)

	for _, p := range SeedPosts() {
		posts.insert(p)
	}
	return nil
}
