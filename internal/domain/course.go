package domain

import (
	"time"
)

// Image is a reference to an externally stored image.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CommentUser is the lightweight author snapshot embedded in questions,
// answers, and reviews.
type CommentUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Link is a supplementary resource attached to a course section.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is a reply to a question inside a course section.
type Answer struct {
	ID        string      `json:"id"`
	User      CommentUser `json:"user"`
	Answer    string      `json:"answer"`
	CreatedAt time.Time   `json:"created_at"`
}

// Question is a Q&A entry attached to a course section.
type Question struct {
	ID        string      `json:"id"`
	User      CommentUser `json:"user"`
	Question  string      `json:"question"`
	Replies   []Answer    `json:"replies"`
	CreatedAt time.Time   `json:"created_at"`
}

// Section is one unit of course content (a video plus its material).
type Section struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	VideoURL      string     `json:"video_url,omitempty"`
	VideoSection  string     `json:"video_section"`
	VideoDuration int        `json:"video_duration"`
	VideoPlayer   string     `json:"video_player"`
	Links         []Link     `json:"links,omitempty"`
	Suggestion    string     `json:"suggestion,omitempty"`
	Questions     []Question `json:"questions,omitempty"`
}

// ReviewReply is an admin reply to a course review.
type ReviewReply struct {
	ID        string      `json:"id"`
	User      CommentUser `json:"user"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}

// Review is a rating plus comment left by a user who owns the course.
type Review struct {
	ID        string        `json:"id"`
	User      CommentUser   `json:"user"`
	Rating    float64       `json:"rating"`
	Comment   string        `json:"comment"`
	Replies   []ReviewReply `json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Benefit is a single benefit or prerequisite bullet point.
type Benefit struct {
	Title string `json:"title"`
}

// Course is a purchasable course with its nested content.
type Course struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	EstimatedPrice float64   `json:"estimated_price,omitempty"`
	Thumbnail      *Image    `json:"thumbnail,omitempty"`
	Tags           string    `json:"tags"`
	Level          string    `json:"level"`
	DemoURL        string    `json:"demo_url"`
	Benefits       []Benefit `json:"benefits"`
	Prerequisites  []Benefit `json:"prerequisites"`
	Sections       []Section `json:"sections"`
	Reviews        []Review  `json:"reviews"`
	Ratings        float64   `json:"ratings"`
	Purchased      int       `json:"purchased"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sanitized returns a copy of the course safe for unauthenticated consumption:
// video URLs, suggestions, questions, and links are stripped from every section.
func (c *Course) Sanitized() *Course {
	out := *c
	out.Sections = make([]Section, len(c.Sections))
	for i, s := range c.Sections {
		s.VideoURL = ""
		s.Suggestion = ""
		s.Questions = nil
		s.Links = nil
		out.Sections[i] = s
	}
	return &out
}

// RecalculateRatings recomputes the average rating from the review list.
func (c *Course) RecalculateRatings() {
	if len(c.Reviews) == 0 {
		c.Ratings = 0
		return
	}
	var sum float64
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	c.Ratings = sum / float64(len(c.Reviews))
}
