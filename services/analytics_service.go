package services

import (
	"assetdesk-backend/models"
	"assetdesk-backend/repositories"

	"gorm.io/gorm"
)

// RequestCounts groups checkout record counts per status
type RequestCounts struct {
	Pending         int64 `json:"pending"`
	Approved        int64 `json:"approved"`
	Rejected        int64 `json:"rejected"`
	ReturnRequested int64 `json:"return_requested"`
	Closed          int64 `json:"closed"`
}

// AssetUnitCounts groups asset unit sums per asset status
type AssetUnitCounts struct {
	Total         int64 `json:"total"`
	Available     int64 `json:"available"`
	CheckedOut    int64 `json:"checked_out"`
	InMaintenance int64 `json:"in_maintenance"`
	Lost          int64 `json:"lost"`
	Retired       int64 `json:"retired"`
}

// AdminAnalytics is the admin dashboard payload
type AdminAnalytics struct {
	UserRole  string          `json:"user_role"`
	Managers  int64           `json:"managers"`
	Employees int64           `json:"employees"`
	Assets    AssetUnitCounts `json:"assets"`
	Requests  RequestCounts   `json:"requests"`
}

// ManagerAnalytics is the manager dashboard payload, scoped to the team
type ManagerAnalytics struct {
	UserRole      string        `json:"user_role"`
	TeamEmployees int64         `json:"team_employees"`
	ActiveAssets  int64         `json:"active_assets"`
	Requests      RequestCounts `json:"requests"`
}

// AnalyticsService derives dashboard aggregates from the ledger and the
// record store. Pure reads, no transaction scope; slightly stale counts are
// acceptable.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ForAdmin builds the system-wide analytics payload
func (s *AnalyticsService) ForAdmin(caller Caller) (*AdminAnalytics, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	payload := AdminAnalytics{UserRole: models.RoleAdmin}

	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleManager).
		Count(&payload.Managers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleEmployee).
		Count(&payload.Employees).Error; err != nil {
		return nil, err
	}

	if err := s.sumUnits("", &payload.Assets.Total); err != nil {
		return nil, err
	}
	unitSums := map[string]*int64{
		models.AssetStatusAvailable:     &payload.Assets.Available,
		models.AssetStatusCheckedOut:    &payload.Assets.CheckedOut,
		models.AssetStatusInMaintenance: &payload.Assets.InMaintenance,
		models.AssetStatusLost:          &payload.Assets.Lost,
		models.AssetStatusRetired:       &payload.Assets.Retired,
	}
	for status, dst := range unitSums {
		if err := s.sumUnits(status, dst); err != nil {
			return nil, err
		}
	}

	counts, err := s.requestCounts(nil)
	if err != nil {
		return nil, err
	}
	payload.Requests = *counts

	return &payload, nil
}

// ForManager builds the team-scoped analytics payload
func (s *AnalyticsService) ForManager(caller Caller) (*ManagerAnalytics, error) {
	if caller.Role != models.RoleManager {
		return nil, ErrForbidden
	}

	payload := ManagerAnalytics{UserRole: models.RoleManager}

	if err := s.db.Model(&models.User{}).
		Where("manager_id = ? AND role = ?", caller.UserID, models.RoleEmployee).
		Count(&payload.TeamEmployees).Error; err != nil {
		return nil, err
	}

	var team []uint
	if err := s.db.Model(&models.User{}).
		Where("manager_id = ?", caller.UserID).
		Pluck("id", &team).Error; err != nil {
		return nil, err
	}
	if len(team) == 0 {
		// IN () is invalid SQL; an impossible ID keeps the queries uniform
		team = []uint{0}
	}

	if err := s.db.Model(&models.CheckoutRecord{}).
		Where("user_id IN ? AND status IN ?", team, []string{
			models.CheckoutStatusApproved,
			models.CheckoutStatusReturnRequested,
		}).Count(&payload.ActiveAssets).Error; err != nil {
		return nil, err
	}

	counts, err := s.requestCounts(team)
	if err != nil {
		return nil, err
	}
	payload.Requests = *counts

	return &payload, nil
}

func (s *AnalyticsService) sumUnits(status string, dst *int64) error {
	query := s.db.Model(&models.Asset{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return query.Select("COALESCE(SUM(quantity), 0)").Scan(dst).Error
}

func (s *AnalyticsService) requestCounts(userIDs []uint) (*RequestCounts, error) {
	records := repositories.NewCheckoutRepository(s.db)

	counts := RequestCounts{}
	targets := map[string]*int64{
		models.CheckoutStatusPending:         &counts.Pending,
		models.CheckoutStatusApproved:        &counts.Approved,
		models.CheckoutStatusRejected:        &counts.Rejected,
		models.CheckoutStatusReturnRequested: &counts.ReturnRequested,
		models.CheckoutStatusClosed:          &counts.Closed,
	}
	for status, dst := range targets {
		n, err := records.CountByStatus(status, userIDs)
		if err != nil {
			return nil, err
		}
		*dst = n
	}
	return &counts, nil
}
