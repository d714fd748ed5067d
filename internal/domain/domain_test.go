package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Role Tests
// ============================================================================

func TestValidRoles_ContainsAll(t *testing.T) {
	assert.ElementsMatch(t, []Role{RoleUser, RoleAdmin}, ValidRoles())
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range ValidRoles() {
		assert.True(t, r.IsValid(), "expected %q to be valid", r)
	}
}

func TestRole_Invalid(t *testing.T) {
	assert.False(t, Role("unknown").IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("ADMIN").IsValid())
	assert.False(t, Role("superadmin").IsValid())
}

// ============================================================================
// Principal Tests
// ============================================================================

func TestUser_Principal(t *testing.T) {
	u := User{
		ID:      "user-1",
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Role:    RoleAdmin,
		Courses: []string{"c-1", "c-2"},
	}
	p := u.Principal()

	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Equal(t, []string{"c-1", "c-2"}, p.Courses)

	// The principal's course list is a copy; mutating the user afterwards
	// must not change it.
	u.Courses[0] = "mutated"
	assert.Equal(t, "c-1", p.Courses[0])
}

func TestPrincipal_OwnsCourse(t *testing.T) {
	p := Principal{Courses: []string{"c-1", "c-2"}}
	assert.True(t, p.OwnsCourse("c-1"))
	assert.True(t, p.OwnsCourse("c-2"))
	assert.False(t, p.OwnsCourse("c-3"))

	empty := Principal{}
	assert.False(t, empty.OwnsCourse("c-1"))
}

// ============================================================================
// Course Tests
// ============================================================================

func TestCourse_Sanitized(t *testing.T) {
	c := &Course{
		Name: "Go from Scratch",
		Sections: []Section{
			{
				Title:      "Intro",
				VideoURL:   "https://cdn.example.com/private/intro.mp4",
				Suggestion: "watch twice",
				Links:      []Link{{Title: "slides", URL: "https://example.com"}},
				Questions:  []Question{{Question: "why?"}},
			},
		},
	}

	s := c.Sanitized()

	assert.Empty(t, s.Sections[0].VideoURL)
	assert.Empty(t, s.Sections[0].Suggestion)
	assert.Nil(t, s.Sections[0].Links)
	assert.Nil(t, s.Sections[0].Questions)
	assert.Equal(t, "Intro", s.Sections[0].Title)

	// The original is untouched.
	assert.Equal(t, "https://cdn.example.com/private/intro.mp4", c.Sections[0].VideoURL)
	assert.Len(t, c.Sections[0].Questions, 1)
}

func TestCourse_RecalculateRatings(t *testing.T) {
	c := &Course{Reviews: []Review{{Rating: 4}, {Rating: 5}, {Rating: 3}}}
	c.RecalculateRatings()
	assert.InDelta(t, 4.0, c.Ratings, 0.001)
}

func TestCourse_RecalculateRatings_NoReviews(t *testing.T) {
	c := &Course{Ratings: 4.5}
	c.RecalculateRatings()
	assert.Zero(t, c.Ratings)
}

// ============================================================================
// Layout Tests
// ============================================================================

func TestLayoutType_IsValid(t *testing.T) {
	assert.True(t, LayoutBanner.IsValid())
	assert.True(t, LayoutFAQ.IsValid())
	assert.True(t, LayoutCategories.IsValid())
	assert.False(t, LayoutType("hero").IsValid())
	assert.False(t, LayoutType("").IsValid())
}
