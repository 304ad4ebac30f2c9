package services

import (
	"errors"
	"fmt"
	"time"

	"assetdesk-backend/models"
	"assetdesk-backend/repositories"

	"gorm.io/gorm"
)

// Caller is the identity established by the auth layer, threaded explicitly
// into every operation. It is never read from ambient state.
type Caller struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// IsReviewer reports whether the caller may approve/reject requests
func (c Caller) IsReviewer() bool {
	return c.Role == models.RoleManager || c.Role == models.RoleAdmin
}

// CheckoutService orchestrates the checkout/return lifecycle. Every mutating
// operation runs as one database transaction over the ledger, the record
// store and the history log: preconditions are re-validated inside the
// transaction and the triad of mutations commits together or not at all.
type CheckoutService struct {
	db *gorm.DB
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{db: db}
}

// CreateCheckout reserves qty units of an asset and opens a PENDING record.
// Admins do not request assets.
func (s *CheckoutService) CreateCheckout(caller Caller, assetID uint, qty int) (*models.CheckoutRecord, error) {
	if caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var record models.CheckoutRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)

		asset, err := assets.FindByID(assetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// The conditional decrement re-checks availability at write time;
		// the earlier read only produces a friendlier error message.
		if asset.AvailableQuantity < qty {
			return ErrInsufficientQuantity
		}
		if err := assets.Reserve(assetID, qty); err != nil {
			return err
		}

		record = models.CheckoutRecord{
			AssetID:  assetID,
			UserID:   caller.UserID,
			Quantity: qty,
			Status:   models.CheckoutStatusPending,
		}
		return records.Create(&record)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(record.ID)
}

// Approve moves a PENDING record to APPROVED. The units were already
// reserved at request time, so only the record status changes and a history
// entry is appended.
func (s *CheckoutService) Approve(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	if !caller.IsReviewer() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusPending {
			return ErrInvalidStateTransition
		}

		record.Status = models.CheckoutStatusApproved
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusApproved, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// Reject moves a PENDING record to REJECTED and restores the reserved units
// to the asset's available pool.
func (s *CheckoutService) Reject(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	if !caller.IsReviewer() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusPending {
			return ErrInvalidStateTransition
		}

		if err := releaseOnce(assets, record); err != nil {
			return err
		}
		record.Status = models.CheckoutStatusRejected
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusRejected, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// CancelPending lets the requesting employee withdraw their own PENDING
// request. The reserved units go back to the pool and the record is deleted
// together with any history rows (normally none exist at this point).
func (s *CheckoutService) CancelPending(caller Caller, recordID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.UserID != caller.UserID {
			return ErrForbidden
		}
		if record.Status != models.CheckoutStatusPending {
			return ErrInvalidStateTransition
		}

		if err := releaseOnce(assets, record); err != nil {
			return err
		}
		if err := history.DeleteByRecordID(record.ID); err != nil {
			return err
		}
		return records.Delete(record.ID)
	})
}

// RequestReturn moves an APPROVED record to RETURN_REQUESTED and immediately
// releases the units back to the pool, so other employees see
// returned-but-unconfirmed stock as available while the return awaits
// review. Re-entry from RETURN_REQUESTED is tolerated; the release guard
// makes the repeated call a no-op on the ledger.
func (s *CheckoutService) RequestReturn(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.UserID != caller.UserID {
			return ErrForbidden
		}
		if record.Status != models.CheckoutStatusApproved &&
			record.Status != models.CheckoutStatusReturnRequested {
			return ErrInvalidStateTransition
		}

		if err := releaseOnce(assets, record); err != nil {
			return err
		}
		record.Status = models.CheckoutStatusReturnRequested
		now := time.Now()
		record.ReturnDate = &now
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusReturnRequested, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// CancelReturn withdraws a pending return, re-reserving the units. If the
// released units were checked out by someone else in the meantime the
// conditional reservation fails with ErrInsufficientQuantity instead of
// driving availability negative.
func (s *CheckoutService) CancelReturn(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	if caller.IsAdmin() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusReturnRequested {
			return ErrInvalidStateTransition
		}

		if err := assets.Reserve(record.AssetID, record.Quantity); err != nil {
			return err
		}
		record.StockReleased = false
		record.Status = models.CheckoutStatusApproved
		record.ReturnDate = nil
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusApproved, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// CloseReturn settles a pending return: the record terminates in CLOSED with
// its return date set. The units were already released when the return was
// requested, so the guard normally leaves the ledger untouched.
func (s *CheckoutService) CloseReturn(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	if !caller.IsReviewer() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusReturnRequested {
			return ErrInvalidStateTransition
		}

		if err := releaseOnce(assets, record); err != nil {
			return err
		}
		record.Status = models.CheckoutStatusClosed
		now := time.Now()
		record.ReturnDate = &now
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusClosed, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// MakeAvailable settles a REJECTED record as CLOSED. The reject transition
// already restored the stock, so the release guard keeps this from crediting
// the pool a second time; it only releases when the units are still marked
// as committed.
func (s *CheckoutService) MakeAvailable(caller Caller, recordID uint) (*models.CheckoutRecord, error) {
	if !caller.IsReviewer() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assets := repositories.NewAssetRepository(tx)
		records := repositories.NewCheckoutRepository(tx)
		history := repositories.NewHistoryRepository(tx)

		record, err := findRecord(records, recordID)
		if err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusRejected {
			return ErrInvalidStateTransition
		}

		if err := releaseOnce(assets, record); err != nil {
			return err
		}
		record.Status = models.CheckoutStatusClosed
		if err := records.Save(record); err != nil {
			return err
		}
		return history.Append(record.ID, record.UserID, caller.UserID,
			models.CheckoutStatusClosed, record.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return repositories.NewCheckoutRepository(s.db).FindByIDWithRelations(recordID)
}

// ListCheckouts returns records visible to the caller, optionally narrowed
// to the given statuses. Employees see their own records, managers their own
// plus their team's, admins everything.
func (s *CheckoutService) ListCheckouts(caller Caller, statuses []string) ([]models.CheckoutRecord, error) {
	filter := repositories.RecordFilter{}

	for _, st := range statuses {
		if models.ValidCheckoutStatus(st) {
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	switch caller.Role {
	case models.RoleEmployee:
		filter.UserIDs = []uint{caller.UserID}
	case models.RoleManager:
		team, err := s.teamIDs(caller.UserID)
		if err != nil {
			return nil, err
		}
		filter.UserIDs = append([]uint{caller.UserID}, team...)
	}

	return repositories.NewCheckoutRepository(s.db).List(filter)
}

// ListPending returns the caller's own PENDING requests. Admins have none.
func (s *CheckoutService) ListPending(caller Caller) ([]models.CheckoutRecord, error) {
	if caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return repositories.NewCheckoutRepository(s.db).List(repositories.RecordFilter{
		UserIDs:  []uint{caller.UserID},
		Statuses: []string{models.CheckoutStatusPending},
	})
}

// ListHistory returns audit entries visible to the caller: employees their
// own, managers their team's plus their own actions, admins everything.
func (s *CheckoutService) ListHistory(caller Caller) ([]models.CheckoutHistory, error) {
	filter := repositories.HistoryFilter{}

	switch caller.Role {
	case models.RoleEmployee:
		filter.UserID = caller.UserID
	case models.RoleManager:
		filter.ForManagerID = caller.UserID
	}

	return repositories.NewHistoryRepository(s.db).List(filter)
}

// CheckLogs is the admin/manager audit view with optional manager and
// employee filters. Managers may only inspect their own team.
func (s *CheckoutService) CheckLogs(caller Caller, managerID, employeeID uint) ([]models.CheckoutHistory, error) {
	filter := repositories.HistoryFilter{}

	switch caller.Role {
	case models.RoleAdmin:
		filter.ActionByID = managerID
		filter.UserID = employeeID
	case models.RoleManager:
		if managerID != 0 && managerID != caller.UserID {
			return nil, ErrForbidden
		}
		filter.ForManagerID = caller.UserID
		filter.UserID = employeeID
	default:
		return nil, ErrForbidden
	}

	return repositories.NewHistoryRepository(s.db).List(filter)
}

// Reconcile verifies the ledger/record-store invariant for one asset:
// available quantity must equal total quantity minus the units committed to
// live records. A mismatch means bookkeeping has drifted.
func (s *CheckoutService) Reconcile(assetID uint) error {
	asset, err := repositories.NewAssetRepository(s.db).FindByID(assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	committed, err := repositories.NewCheckoutRepository(s.db).CommittedQuantity(assetID)
	if err != nil {
		return err
	}

	if asset.AvailableQuantity != asset.Quantity-committed {
		return fmt.Errorf("%w: asset %d has %d available, expected %d",
			ErrInvariantViolation, assetID, asset.AvailableQuantity, asset.Quantity-committed)
	}
	return nil
}

// teamIDs returns the user IDs of the employees reporting to a manager
func (s *CheckoutService) teamIDs(managerID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.User{}).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error
	return ids, err
}

// findRecord loads a record, translating the missing-row case
func findRecord(records repositories.CheckoutRepository, recordID uint) (*models.CheckoutRecord, error) {
	record, err := records.FindByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// releaseOnce returns the record's units to the pool unless they were
// already credited back. The StockReleased flag is the guard against
// double-releasing the same reservation.
func releaseOnce(assets repositories.AssetRepository, record *models.CheckoutRecord) error {
	if record.StockReleased {
		return nil
	}
	if err := assets.Release(record.AssetID, record.Quantity); err != nil {
		return err
	}
	record.StockReleased = true
	return nil
}
