// internal/domain/user/admin_service.go
package user

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// AdminService handles admin user management operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Search    string `form:"search"`
	Status    string `form:"status"` // active, inactive, all
	Role      string `form:"role"`   // admin, user, all
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []UserWithStats `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// UserWithStats represents user with purchase statistics
type UserWithStats struct {
	User
	OrderCount  int64      `json:"order_count"`
	TotalSpent  int64      `json:"total_spent"` // In cents
	LastOrderAt *time.Time `json:"last_order_at"`
}

// UserScoreRequest represents a customer score adjustment
type UserScoreRequest struct {
	Score int `json:"score" binding:"gte=0"`
}

// UserExportRequest represents user export parameters
type UserExportRequest struct {
	Format       string `form:"format,default=csv"` // csv, json
	Status       string `form:"status"`
	Role         string `form:"role"`
	IncludeStats bool   `form:"include_stats,default=false"`
}

func applyUserFilters(query *gorm.DB, search, status, role string) *gorm.DB {
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			term, term, term, "%"+search+"%",
		)
	}

	switch status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	switch role {
	case "admin":
		query = query.Where("is_admin = ?", true)
	case "user":
		query = query.Where("is_admin = ?", false)
	}

	return query
}

// GetUsers retrieves users with filtering and pagination
func (s *AdminService) GetUsers(req *UserListRequest) (*UserListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var users []User
	var total int64

	query := applyUserFilters(s.db.Model(&User{}), req.Search, req.Status, req.Role)

	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count users")
	}

	validSortFields := map[string]bool{
		"created_at": true, "email": true, "last_login_at": true, "score": true,
	}
	sortBy := req.SortBy
	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	orderClause := sortBy + " ASC"
	if req.SortOrder != "asc" {
		orderClause = sortBy + " DESC"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order(orderClause).Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve users")
	}

	usersWithStats := make([]UserWithStats, 0, len(users))
	for _, u := range users {
		stats := s.getUserStats(u.ID)
		stats.User = u
		stats.User.Password = ""
		usersWithStats = append(usersWithStats, *stats)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &UserListResponse{
		Users:      usersWithStats,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser retrieves a single user by ID with stats
func (s *AdminService) GetUser(userID uint) (*UserWithStats, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load user")
	}

	stats := s.getUserStats(userID)
	stats.User = u
	stats.User.Password = ""
	return stats, nil
}

// SetActive activates or deactivates an account. Admins cannot
// deactivate themselves.
func (s *AdminService) SetActive(userID, adminID uint, active bool) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load user")
	}

	if userID == adminID && !active {
		return nil, apperror.New(apperror.CodeConflict, "cannot deactivate your own account")
	}

	if u.IsActive == active {
		if active {
			return nil, apperror.New(apperror.CodeConflict, "user %d is already active", userID)
		}
		return nil, apperror.New(apperror.CodeConflict, "user %d is already inactive", userID)
	}

	if err := s.db.Model(&u).Update("is_active", active).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update user status")
	}
	u.IsActive = active
	u.Password = ""
	return &u, nil
}

// SetAdmin grants or revokes the admin capability. Admins cannot
// revoke themselves, and the last admin cannot be demoted.
func (s *AdminService) SetAdmin(userID, adminID uint, isAdmin bool) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load user")
	}

	if userID == adminID && !isAdmin {
		return nil, apperror.New(apperror.CodeConflict, "cannot revoke your own admin privileges")
	}

	if u.IsAdmin == isAdmin {
		if isAdmin {
			return nil, apperror.New(apperror.CodeConflict, "user %d is already an admin", userID)
		}
		return nil, apperror.New(apperror.CodeConflict, "user %d is not an admin", userID)
	}

	if !isAdmin {
		var adminCount int64
		s.db.Model(&User{}).Where("is_admin = ? AND id != ?", true, userID).Count(&adminCount)
		if adminCount == 0 {
			return nil, apperror.New(apperror.CodeConflict, "at least one admin must remain")
		}
	}

	if err := s.db.Model(&u).Update("is_admin", isAdmin).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update admin status")
	}
	u.IsAdmin = isAdmin
	u.Password = ""
	return &u, nil
}

// SetScore sets a user's customer loyalty score
func (s *AdminService) SetScore(userID uint, req *UserScoreRequest) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load user")
	}

	if err := s.db.Model(&u).Update("score", req.Score).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update score")
	}
	u.Score = req.Score
	u.Password = ""
	return &u, nil
}

// ExportUsers exports users data as CSV or JSON
func (s *AdminService) ExportUsers(req *UserExportRequest) ([]byte, string, error) {
	query := applyUserFilters(s.db.Model(&User{}), "", req.Status, req.Role)

	var users []User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve users for export")
	}

	switch req.Format {
	case "csv":
		return s.generateCSVExport(users, req.IncludeStats)
	case "json":
		return s.generateJSONExport(users, req.IncludeStats)
	default:
		return nil, "", apperror.New(apperror.CodeValidation, "unsupported export format: %s", req.Format)
	}
}

// getUserStats gets purchase statistics for a user. Failures fall back
// to zero stats rather than failing the listing.
func (s *AdminService) getUserStats(userID uint) *UserWithStats {
	stats := &UserWithStats{}

	type orderStats struct {
		OrderCount  int64
		TotalSpent  int64
		LastOrderAt *time.Time
	}

	var os orderStats
	err := s.db.Raw(`
		SELECT
			COUNT(*) as order_count,
			COALESCE(SUM(total_amount), 0) as total_spent,
			MAX(created_at) as last_order_at
		FROM orders
		WHERE user_id = ? AND status != 'CANCELLED'
	`, userID).Scan(&os).Error
	if err != nil {
		return stats
	}

	stats.OrderCount = os.OrderCount
	stats.TotalSpent = os.TotalSpent
	stats.LastOrderAt = os.LastOrderAt
	return stats
}

// generateCSVExport generates CSV export
func (s *AdminService) generateCSVExport(users []User, includeStats bool) ([]byte, string, error) {
	var records [][]string

	headers := []string{
		"ID", "Email", "First Name", "Last Name", "Phone",
		"Is Active", "Is Admin", "Score", "Created At", "Last Login",
	}
	if includeStats {
		headers = append(headers, "Order Count", "Total Spent", "Last Order")
	}
	records = append(records, headers)

	for _, u := range users {
		record := []string{
			strconv.Itoa(int(u.ID)),
			u.Email,
			u.FirstName,
			u.LastName,
			u.Phone,
			strconv.FormatBool(u.IsActive),
			strconv.FormatBool(u.IsAdmin),
			strconv.Itoa(u.Score),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		if u.LastLoginAt != nil {
			record = append(record, u.LastLoginAt.Format("2006-01-02 15:04:05"))
		} else {
			record = append(record, "Never")
		}

		if includeStats {
			stats := s.getUserStats(u.ID)
			record = append(record,
				strconv.FormatInt(stats.OrderCount, 10),
				fmt.Sprintf("%.2f", float64(stats.TotalSpent)/100),
			)
			if stats.LastOrderAt != nil {
				record = append(record, stats.LastOrderAt.Format("2006-01-02 15:04:05"))
			} else {
				record = append(record, "Never")
			}
		}

		records = append(records, record)
	}

	var csvData strings.Builder
	writer := csv.NewWriter(&csvData)
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, "", apperror.Wrap(err, apperror.CodeInternal, "failed to write CSV record")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternal, "failed to write CSV")
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	return []byte(csvData.String()), filename, nil
}

// generateJSONExport generates JSON export
func (s *AdminService) generateJSONExport(users []User, includeStats bool) ([]byte, string, error) {
	exportData := make([]map[string]interface{}, 0, len(users))

	for _, u := range users {
		u.Password = ""
		userData := map[string]interface{}{
			"id":            u.ID,
			"email":         u.Email,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"phone":         u.Phone,
			"is_active":     u.IsActive,
			"is_admin":      u.IsAdmin,
			"score":         u.Score,
			"created_at":    u.CreatedAt,
			"last_login_at": u.LastLoginAt,
		}

		if includeStats {
			stats := s.getUserStats(u.ID)
			userData["order_count"] = stats.OrderCount
			userData["total_spent"] = stats.TotalSpent
			userData["last_order_at"] = stats.LastOrderAt
		}

		exportData = append(exportData, userData)
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"exported_at": time.Now(),
		"total_users": len(users),
		"users":       exportData,
	}, "", "  ")
	if err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternal, "failed to generate JSON")
	}

	filename := fmt.Sprintf("users_export_%s.json", time.Now().Format("2006-01-02_15-04-05"))
	return jsonData, filename, nil
}
