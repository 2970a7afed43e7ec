package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

type budgetResponse struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	MonthlyLimit int64         `json:"monthly_limit"`
	Month        period.Period `json:"month"`
	Year         int           `json:"year"`
	Category     category.Ref  `json:"category"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		Name:         b.Name,
		MonthlyLimit: b.MonthlyLimit,
		Month:        b.Month,
		Year:         b.Year,
		Category:     b.Category,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type progressResponse struct {
	Percentage float64           `json:"percentage"`
	Remaining  int64             `json:"remaining"`
	Level      budget.AlertLevel `json:"level"`
	Exceeded   bool              `json:"exceeded"`
}

func toProgressResponse(p budget.Progress) progressResponse {
	return progressResponse{
		Percentage: p.Percentage,
		Remaining:  p.Remaining,
		Level:      p.Level,
		Exceeded:   p.Exceeded,
	}
}

type itemResponse struct {
	Budget   budgetResponse   `json:"budget"`
	Category string           `json:"category"`
	Limit    int64            `json:"limit"`
	Spent    int64            `json:"spent"`
	Progress progressResponse `json:"progress"`
}

type availableResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type overviewResponse struct {
	Month      period.Period       `json:"month"`
	Items      []itemResponse      `json:"items"`
	Available  []availableResponse `json:"available"`
	TotalLimit int64               `json:"total_limit"`
	TotalSpent int64               `json:"total_spent"`
	Progress   progressResponse    `json:"progress"`
}

func toOverviewResponse(ov *budget.Overview) overviewResponse {
	resp := overviewResponse{
		Month:      ov.Period,
		Items:      make([]itemResponse, len(ov.Items)),
		Available:  make([]availableResponse, len(ov.Available)),
		TotalLimit: ov.TotalLimit,
		TotalSpent: ov.TotalSpent,
		Progress:   toProgressResponse(ov.Progress),
	}

	for i, it := range ov.Items {
		resp.Items[i] = itemResponse{
			Budget:   toResponse(it.Budget),
			Category: it.CategoryName,
			Limit:    it.Limit,
			Spent:    it.Spent,
			Progress: toProgressResponse(it.Progress),
		}
	}

	for i, c := range ov.Available {
		resp.Available[i] = availableResponse{ID: c.ID, Name: c.Name, Color: c.Color}
	}

	return resp
}

type draftResponse struct {
	ID        uuid.UUID       `json:"id"`
	State     string          `json:"state"`
	Category  string          `json:"category"`
	Limit     string          `json:"monthly_limit"`
	LastSaved *budgetResponse `json:"last_saved,omitempty"`
	LastError string          `json:"last_error,omitempty"`
	Invalid   string          `json:"invalid,omitempty"`
	Saves     int             `json:"saves"`
}

func toDraftResponse(s autosave.Snapshot) draftResponse {
	resp := draftResponse{
		ID:       s.ID,
		State:    s.State.String(),
		Category: s.Fields.Category,
		Limit:    s.Fields.Limit,
		Saves:    s.Saves,
	}

	if s.LastSaved != nil {
		saved := toResponse(s.LastSaved)
		resp.LastSaved = &saved
	}

	if s.LastError != nil {
		resp.LastError = s.LastError.Error()
	}

	if s.Invalid != nil {
		resp.Invalid = s.Invalid.Error()
	}

	return resp
}
