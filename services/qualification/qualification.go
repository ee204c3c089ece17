package qualificationService

import (
	"context"
	"errors"
	"fmt"

	"loyalty/models"

	"gorm.io/gorm"
)

var (
	ErrQualificationNotFound = errors.New("qualification not found")
	ErrCalificationNotFound  = errors.New("calification not found")
	ErrNoQualifications      = errors.New("no qualifications found")
	ErrCalificationsRequired = errors.New("at least one calification is required")
	ErrPartyRequired         = errors.New("companyId or donatorId is required")
)

// StorageError wraps any failure reported by the database
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type CalificationInput struct {
	Score    float64
	Comments string
}

// CreateInput carries a new qualification; scores are clamped on write.
type CreateInput struct {
	DonationID     string
	CompanyID      string
	DonatorID      string
	OrganizationID string
	GeneralScore   float64
	Notes          string
	Califications  map[models.CalificationCategory]CalificationInput
}

type CalificationPatch struct {
	ID       uint
	Score    *float64
	Comments *string
}

// UpdateInput holds the fields to change; nil fields and absent categories are left untouched.
type UpdateInput struct {
	DonationID     *string
	CompanyID      *string
	DonatorID      *string
	OrganizationID *string
	GeneralScore   *float64
	Notes          *string
	Califications  map[models.CalificationCategory]CalificationPatch
}

// Service reads and writes qualifications through GORM
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

func withCalifications(db *gorm.DB) *gorm.DB {
	return db.Preload("Califications", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ListIDs returns every qualification id in ascending order
func (s *Service) ListIDs(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0)
	if err := s.db.WithContext(ctx).Model(&models.Qualification{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, storageErr("list qualification ids", err)
	}
	return ids, nil
}

func (s *Service) GetByID(ctx context.Context, id uint) (*models.Qualification, error) {
	return s.load(s.db.WithContext(ctx), "get qualification", id)
}

func (s *Service) load(db *gorm.DB, op string, id uint) (*models.Qualification, error) {
	var qualification models.Qualification
	if err := withCalifications(db).First(&qualification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQualificationNotFound
		}
		return nil, storageErr(op, err)
	}
	return &qualification, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Qualification, error) {
	return s.list(ctx, "list qualifications", nil)
}

// ListByCompany returns the qualifications received by a company
func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]models.Qualification, error) {
	return s.list(ctx, "list qualifications by company", map[string]interface{}{"company_id": companyID})
}

// ListByDonator returns the qualifications attached to a donator
func (s *Service) ListByDonator(ctx context.Context, donatorID string) ([]models.Qualification, error) {
	return s.list(ctx, "list qualifications by donator", map[string]interface{}{"donator_id": donatorID})
}

func (s *Service) list(ctx context.Context, op string, where map[string]interface{}) ([]models.Qualification, error) {
	query := withCalifications(s.db.WithContext(ctx)).Order("id")
	if where != nil {
		query = query.Where(where)
	}

	qualifications := make([]models.Qualification, 0)
	if err := query.Find(&qualifications).Error; err != nil {
		return nil, storageErr(op, err)
	}
	return qualifications, nil
}

// Create stores a qualification together with its sub-ratings in one transaction
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Qualification, error) {
	qualification := models.Qualification{
		DonationID:     in.DonationID,
		CompanyID:      in.CompanyID,
		DonatorID:      in.DonatorID,
		OrganizationID: in.OrganizationID,
		GeneralScore:   Clamp(in.GeneralScore),
		Notes:          in.Notes,
	}

	for _, category := range models.CalificationCategories {
		c, ok := in.Califications[category]
		if !ok {
			continue
		}
		qualification.Califications = append(qualification.Califications, models.Calification{
			Category: category,
			Score:    Clamp(c.Score),
			Comments: c.Comments,
		})
	}
	if len(qualification.Califications) == 0 {
		return nil, ErrCalificationsRequired
	}
	if qualification.CompanyID == "" && qualification.DonatorID == "" {
		return nil, ErrPartyRequired
	}

	if err := s.db.WithContext(ctx).Create(&qualification).Error; err != nil {
		return nil, storageErr("create qualification", err)
	}
	return &qualification, nil
}

// Update applies in to qualification id. A missing id yields ErrQualificationNotFound
// before anything is written.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Qualification, error) {
	var updated *models.Qualification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.load(tx, "load qualification for update", id)
		if err != nil {
			return err
		}

		companyID, donatorID := existing.CompanyID, existing.DonatorID
		if in.CompanyID != nil {
			companyID = *in.CompanyID
		}
		if in.DonatorID != nil {
			donatorID = *in.DonatorID
		}
		if companyID == "" && donatorID == "" {
			return ErrPartyRequired
		}

		fields := map[string]interface{}{}
		setString(fields, "donation_id", in.DonationID)
		setString(fields, "company_id", in.CompanyID)
		setString(fields, "donator_id", in.DonatorID)
		setString(fields, "organization_id", in.OrganizationID)
		setString(fields, "notes", in.Notes)
		if in.GeneralScore != nil {
			fields["general_score"] = Clamp(*in.GeneralScore)
		}

		if len(fields) > 0 {
			if err := tx.Model(&models.Qualification{ID: existing.ID}).Updates(fields).Error; err != nil {
				return storageErr("update qualification", err)
			}
		}

		for _, category := range models.CalificationCategories {
			patch, ok := in.Califications[category]
			if !ok {
				continue
			}
			if err := updateCalification(tx, existing, category, patch); err != nil {
				return err
			}
		}

		updated, err = s.load(tx, "reload qualification", id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func updateCalification(tx *gorm.DB, q *models.Qualification, category models.CalificationCategory, patch CalificationPatch) error {
	current := q.Calification(category)
	if current == nil || current.ID != patch.ID {
		return fmt.Errorf("%w: %s %d on qualification %d", ErrCalificationNotFound, category.JSONKey(), patch.ID, q.ID)
	}

	fields := map[string]interface{}{}
	if patch.Score != nil {
		fields["score"] = Clamp(*patch.Score)
	}
	setString(fields, "comments", patch.Comments)
	if len(fields) == 0 {
		return nil
	}

	if err := tx.Model(&models.Calification{ID: current.ID}).Updates(fields).Error; err != nil {
		return storageErr("update calification", err)
	}
	return nil
}

func setString(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}

// Delete removes qualification id and its sub-ratings, returning the record as it was.
func (s *Service) Delete(ctx context.Context, id uint) (*models.Qualification, error) {
	var snapshot *models.Qualification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.load(tx, "load qualification for delete", id)
		if err != nil {
			return err
		}

		if err := tx.Where("qualification_id = ?", id).Delete(&models.Calification{}).Error; err != nil {
			return storageErr("delete califications", err)
		}
		if err := tx.Delete(&models.Qualification{}, id).Error; err != nil {
			return storageErr("delete qualification", err)
		}

		snapshot = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// AverageByCompany averages the scores a company received. It fails with
// ErrNoQualifications when the company has none.
func (s *Service) AverageByCompany(ctx context.Context, companyID string) (*Averages, error) {
	qualifications, err := s.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	averages, ok := ComputeAverages(qualifications)
	if !ok {
		return nil, fmt.Errorf("%w for company %q", ErrNoQualifications, companyID)
	}
	return &averages, nil
}
