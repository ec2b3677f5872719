package handlers

import (
	"testing"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

func TestSearchAchievements(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	hackathon := seedAchievement(t, db, a, "technical", models.StatusApproved, 50)
	db.Model(&hackathon).Update("title", "National Hackathon Winner")
	seedAchievement(t, db, a, "sports", models.StatusApproved, 10)

	res, err := h.HandleSearch(authContext(a), &SearchAchievementsRequest{Query: "hackathon"})
	if err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}
	if res.Body.Pagination.TotalItems != 1 {
		t.Fatalf("got %d results, want 1", res.Body.Pagination.TotalItems)
	}
	if res.Body.Achievements[0].ID != hackathon.ID {
		t.Errorf("unexpected hit: %+v", res.Body.Achievements[0])
	}

	res, err = h.HandleSearch(authContext(a), &SearchAchievementsRequest{Category: "sports"})
	if err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}
	if res.Body.Pagination.TotalItems != 1 {
		t.Errorf("category filter got %d results, want 1", res.Body.Pagination.TotalItems)
	}
}

func TestSearchPagination(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	for i := 0; i < 5; i++ {
		seedAchievement(t, db, a, "technical", models.StatusApproved, i)
	}

	res, err := h.HandleSearch(authContext(a), &SearchAchievementsRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}
	p := res.Body.Pagination
	if p.TotalItems != 5 || p.TotalPages != 3 || p.CurrentPage != 2 {
		t.Errorf("unexpected pagination: %+v", p)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Errorf("page 2 of 3 should have both neighbors: %+v", p)
	}
	if len(res.Body.Achievements) != 2 {
		t.Errorf("got %d results on page, want 2", len(res.Body.Achievements))
	}
}

func TestSearchSortValidation(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	seedAchievement(t, db, a, "technical", models.StatusApproved, 10)
	seedAchievement(t, db, a, "technical", models.StatusApproved, 50)

	// Unknown sort columns fall back to created_at instead of reaching SQL.
	if _, err := h.HandleSearch(authContext(a), &SearchAchievementsRequest{SortBy: "points; DROP TABLE users"}); err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}

	res, err := h.HandleSearch(authContext(a), &SearchAchievementsRequest{SortBy: "points", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}
	if res.Body.Achievements[0].Points != 50 {
		t.Errorf("expected highest points first, got %d", res.Body.Achievements[0].Points)
	}
}

func TestSearchSuggestions(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	hackathon := seedAchievement(t, db, a, "technical", models.StatusApproved, 10)
	db.Model(&hackathon).Update("title", "Hackathon Winner")

	res, err := h.HandleSuggestions(authContext(a), &SuggestionsRequest{Query: "hack"})
	if err != nil {
		t.Fatalf("HandleSuggestions: %v", err)
	}
	if len(res.Body.Suggestions) != 1 || res.Body.Suggestions[0].Value != "Hackathon Winner" {
		t.Errorf("unexpected suggestions: %+v", res.Body.Suggestions)
	}

	// Queries below the minimum length return nothing.
	res, err = h.HandleSuggestions(authContext(a), &SuggestionsRequest{Query: "h"})
	if err != nil {
		t.Fatalf("HandleSuggestions: %v", err)
	}
	if len(res.Body.Suggestions) != 0 {
		t.Errorf("short query should return no suggestions, got %+v", res.Body.Suggestions)
	}
}
