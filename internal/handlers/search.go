package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type SearchHandler struct {
	db *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

// Sortable columns exposed to the client, mapped to their SQL names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"date":      "date",
	"title":     "title",
	"points":    "points",
}

type SearchAchievementsRequest struct {
	Query        string `query:"query" doc:"Free text over title, description, student name and organization"`
	Category     string `query:"category"`
	Level        string `query:"level"`
	Status       string `query:"status"`
	Department   string `query:"department"`
	DateFrom     string `query:"dateFrom" doc:"Inclusive lower bound, YYYY-MM-DD"`
	DateTo       string `query:"dateTo" doc:"Inclusive upper bound, YYYY-MM-DD"`
	StudentName  string `query:"studentName"`
	Organization string `query:"organization"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder" doc:"asc or desc"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
}

type SearchPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type SearchAchievementsResponse struct {
	Body struct {
		Achievements []models.Achievement `json:"achievements"`
		Pagination   SearchPagination     `json:"pagination"`
	}
}

func (h *SearchHandler) HandleSearch(ctx context.Context, input *SearchAchievementsRequest) (*SearchAchievementsResponse, error) {
	page, limit := normalizePage(input.Page, input.Limit, 20)

	query := h.db.Model(&models.Achievement{})

	if input.Query != "" {
		like := "%" + input.Query + "%"
		query = query.Where(
			"title LIKE ? OR description LIKE ? OR student_name LIKE ? OR organization LIKE ?",
			like, like, like, like,
		)
	}
	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}
	if input.Level != "" {
		query = query.Where("level = ?", input.Level)
	}
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}
	if input.StudentName != "" {
		query = query.Where("student_name LIKE ?", "%"+input.StudentName+"%")
	}
	if input.Organization != "" {
		query = query.Where("organization LIKE ?", "%"+input.Organization+"%")
	}

	if input.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", input.DateFrom); err == nil {
			query = query.Where("date >= ?", from)
		}
	}
	if input.DateTo != "" {
		if to, err := time.Parse("2006-01-02", input.DateTo); err == nil {
			query = query.Where("date <= ?", to)
		}
	}

	if input.Department != "" {
		query = query.Where(
			"student_id IN (?)",
			h.db.Model(&models.User{}).Select("id").
				Where("department LIKE ? AND role = ?", "%"+input.Department+"%", models.RoleStudent),
		)
	}

	sortColumn, ok := sortColumns[input.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(input.SortOrder, "asc") {
		direction = "ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to search achievements")
	}

	var achievements []models.Achievement
	err := query.Order(sortColumn + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&achievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to search achievements")
	}

	pages := totalPages(total, limit)

	res := &SearchAchievementsResponse{}
	res.Body.Achievements = achievements
	res.Body.Pagination = SearchPagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < pages,
		HasPrevPage:  page > 1,
	}
	return res, nil
}

type SuggestionsRequest struct {
	Query string `query:"query"`
}

type Suggestion struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type SuggestionsResponse struct {
	Body struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
}

const suggestionLimit = 10

func (h *SearchHandler) HandleSuggestions(ctx context.Context, input *SuggestionsRequest) (*SuggestionsResponse, error) {
	res := &SuggestionsResponse{}
	res.Body.Suggestions = []Suggestion{}

	if len(input.Query) < 2 {
		return res, nil
	}
	like := "%" + input.Query + "%"

	seen := map[string]bool{}
	collect := func(kind, column string) error {
		var values []string
		err := h.db.Model(&models.Achievement{}).
			Distinct(column).
			Where(column+" LIKE ?", like).
			Limit(suggestionLimit).
			Pluck(column, &values).Error
		if err != nil {
			return err
		}
		for _, v := range values {
			if v == "" || seen[v] || len(res.Body.Suggestions) >= suggestionLimit {
				continue
			}
			seen[v] = true
			res.Body.Suggestions = append(res.Body.Suggestions, Suggestion{Type: kind, Value: v})
		}
		return nil
	}

	for _, c := range []struct{ kind, column string }{
		{"title", "title"},
		{"student", "student_name"},
		{"organization", "organization"},
	} {
		if err := collect(c.kind, c.column); err != nil {
			return nil, huma.Error500InternalServerError("Failed to get search suggestions")
		}
	}

	return res, nil
}

type FilterOptionsResponse struct {
	Body struct {
		Categories    []string `json:"categories"`
		Levels        []string `json:"levels"`
		Departments   []string `json:"departments"`
		Organizations []string `json:"organizations"`
	}
}

func (h *SearchHandler) HandleFilterOptions(ctx context.Context, input *struct{}) (*FilterOptionsResponse, error) {
	res := &FilterOptionsResponse{}

	distinct := func(model interface{}, column string, dst *[]string, conds ...interface{}) error {
		query := h.db.Model(model).Distinct(column).Order(column)
		if len(conds) > 0 {
			query = query.Where(conds[0], conds[1:]...)
		}
		if err := query.Pluck(column, dst).Error; err != nil {
			return err
		}
		// Drop empty values so the UI does not render blank options.
		filtered := (*dst)[:0]
		for _, v := range *dst {
			if v != "" {
				filtered = append(filtered, v)
			}
		}
		*dst = filtered
		if *dst == nil {
			*dst = []string{}
		}
		return nil
	}

	if err := distinct(&models.Achievement{}, "category", &res.Body.Categories); err != nil {
		return nil, huma.Error500InternalServerError("Failed to get filter options")
	}
	if err := distinct(&models.Achievement{}, "level", &res.Body.Levels); err != nil {
		return nil, huma.Error500InternalServerError("Failed to get filter options")
	}
	if err := distinct(&models.User{}, "department", &res.Body.Departments, "role = ?", models.RoleStudent); err != nil {
		return nil, huma.Error500InternalServerError("Failed to get filter options")
	}
	if err := distinct(&models.Achievement{}, "organization", &res.Body.Organizations); err != nil {
		return nil, huma.Error500InternalServerError("Failed to get filter options")
	}

	return res, nil
}
