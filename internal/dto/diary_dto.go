package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/models"
)

const DateLayout = "2006-01-02"

type CreateDiaryRequest struct {
	Content string `json:"content"`
	Date    string `json:"date"`
}

type UpdateDiaryRequest struct {
	Content string `json:"content"`
}

// DiaryResponse renders an entry with its calendar day as YYYY-MM-DD.
type DiaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDiaryResponse(e models.DiaryEntry) DiaryResponse {
	return DiaryResponse{
		ID:        e.ID,
		Content:   e.Content,
		Date:      e.Date.Format(DateLayout),
		CreatedAt: e.CreatedAt,
	}
}

func NewDiaryResponses(entries []models.DiaryEntry) []DiaryResponse {
	out := make([]DiaryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewDiaryResponse(e))
	}
	return out
}

type MonthlyStat struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type DayStat struct {
	Date     string `json:"date"`
	HasEntry bool   `json:"has_entry"`
}

type DiaryStatistics struct {
	TotalDiaries        int64         `json:"total_diaries"`
	CurrentMonthDiaries int64         `json:"current_month_diaries"`
	LongestStreak       int           `json:"longest_streak"`
	CurrentStreak       int           `json:"current_streak"`
	MonthlyStats        []MonthlyStat `json:"monthly_stats"`
	RecentDays          []DayStat     `json:"recent_days"`
}

// Snapshot is the portable export format.
const SnapshotVersion = "1.0"

type UserExport struct {
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

type DiaryExport struct {
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type DataExportResponse struct {
	Version    string        `json:"version"`
	User       UserExport    `json:"user"`
	Diaries    []DiaryExport `json:"diaries"`
	ExportedAt time.Time     `json:"exported_at"`
}

type DataImportRequest struct {
	Diaries           []DiaryImport `json:"diaries"`
	OverwriteExisting bool          `json:"overwrite_existing"`
}

type DiaryImport struct {
	Content string `json:"content"`
	Date    string `json:"date"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
