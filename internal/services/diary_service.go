package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/database"
	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDiaryNotFound = errors.New("diary entry not found")
	ErrNotOwner      = errors.New("permission denied: you do not own this diary entry")
)

type DiaryService struct {
	db *gorm.DB
}

func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{db: db}
}

func (s *DiaryService) CreateEntry(userID uuid.UUID, content string, date time.Time) (*models.DiaryEntry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content must not be empty")
	}

	entry := models.DiaryEntry{
		ID:      uuid.New(),
		UserID:  userID,
		Content: content,
		Date:    dateOf(date),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry is content-only and rejected unless the requester owns the entry.
func (s *DiaryService) UpdateEntry(userID uuid.UUID, entryID uuid.UUID, content string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiaryNotFound
		}
		return nil, err
	}

	if entry.UserID != userID {
		return nil, ErrNotOwner
	}

	entry.Content = content
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// EntriesForDate returns all of the user's entries on a calendar day. Dates
// are not unique per user, so this is always a list.
func (s *DiaryService) EntriesForDate(userID uuid.UUID, date time.Time) ([]models.DiaryEntry, error) {
	var entries []models.DiaryEntry
	err := s.db.Scopes(database.ForUser(userID)).
		Where("date = ?", dateOf(date)).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// Search filters by keyword and/or an inclusive date range; with no filters it
// returns the full history, most recent date first.
func (s *DiaryService) Search(userID uuid.UUID, keyword string, startDate, endDate *time.Time) ([]models.DiaryEntry, error) {
	q := s.db.Scopes(database.ForUser(userID)).Order("date DESC")

	keyword = strings.TrimSpace(keyword)
	if keyword != "" {
		q = q.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if startDate != nil && endDate != nil {
		q = q.Where("date BETWEEN ? AND ?", dateOf(*startDate), dateOf(*endDate))
	}

	var entries []models.DiaryEntry
	err := q.Find(&entries).Error
	return entries, err
}

// PastEntries returns the first entry written exactly 1, 3, 6 and 12 months
// ago, or null for months with no entry.
func (s *DiaryService) PastEntries(userID uuid.UUID) (map[string]*dto.DiaryResponse, error) {
	today := dateOf(time.Now().UTC())
	result := make(map[string]*dto.DiaryResponse, 4)

	for key, months := range map[string]int{"1month": 1, "3months": 3, "6months": 6, "12months": 12} {
		target := today.AddDate(0, -months, 0)
		entries, err := s.EntriesForDate(userID, target)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			resp := dto.NewDiaryResponse(entries[0])
			result[key] = &resp
		} else {
			result[key] = nil
		}
	}
	return result, nil
}

func (s *DiaryService) allEntries(userID uuid.UUID) ([]models.DiaryEntry, error) {
	var entries []models.DiaryEntry
	err := s.db.Scopes(database.ForUser(userID)).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// Export produces a portable snapshot of the user's profile and full entry
// list, most recent date first.
func (s *DiaryService) Export(user *models.User) (*dto.DataExportResponse, error) {
	entries, err := s.allEntries(user.ID)
	if err != nil {
		return nil, err
	}

	diaries := make([]dto.DiaryExport, 0, len(entries))
	for _, e := range entries {
		diaries = append(diaries, dto.DiaryExport{
			Content:   e.Content,
			Date:      e.Date.Format(dto.DateLayout),
			CreatedAt: e.CreatedAt,
		})
	}

	return &dto.DataExportResponse{
		Version: dto.SnapshotVersion,
		User: dto.UserExport{
			Username:  user.Username,
			Nickname:  user.Nickname,
			CreatedAt: user.CreatedAt,
		},
		Diaries:    diaries,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// Import re-ingests a snapshot's entries one record at a time. Existing
// entries on an incoming date are skipped unless overwriteExisting is set, in
// which case the whole same-date list is deleted before the insert. A failure
// on one record is recorded and never aborts the batch.
func (s *DiaryService) Import(userID uuid.UUID, req *dto.DataImportRequest) *dto.ImportResult {
	result := &dto.ImportResult{Errors: []string{}}

	for _, incoming := range req.Diaries {
		if err := s.importOne(userID, incoming, req.OverwriteExisting); err != nil {
			if errors.Is(err, errSkipped) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", incoming.Date, err.Error()))
			continue
		}
		result.Imported++
	}

	return result
}

var errSkipped = errors.New("existing entries kept")

func (s *DiaryService) importOne(userID uuid.UUID, incoming dto.DiaryImport, overwrite bool) error {
	date, err := time.Parse(dto.DateLayout, incoming.Date)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if strings.TrimSpace(incoming.Content) == "" {
		return errors.New("content must not be empty")
	}

	existing, err := s.EntriesForDate(userID, date)
	if err != nil {
		return err
	}

	if len(existing) > 0 && !overwrite {
		return errSkipped
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(existing) > 0 {
			if err := tx.Scopes(database.ForUser(userID)).
				Where("date = ?", dateOf(date)).
				Delete(&models.DiaryEntry{}).Error; err != nil {
				return err
			}
		}

		entry := models.DiaryEntry{
			ID:      uuid.New(),
			UserID:  userID,
			Content: incoming.Content,
			Date:    dateOf(date),
		}
		return tx.Create(&entry).Error
	})
}
