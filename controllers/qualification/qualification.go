package qualificationController

import (
	"context"
	"errors"

	"loyalty/middleware"
	"loyalty/models"
	qualificationService "loyalty/services/qualification"
	qualificationValidator "loyalty/validators/qualification"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QualificationService is the storage-facing side the controller depends on
type QualificationService interface {
	ListIDs(ctx context.Context) ([]uint, error)
	GetByID(ctx context.Context, id uint) (*models.Qualification, error)
	ListAll(ctx context.Context) ([]models.Qualification, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Qualification, error)
	ListByDonator(ctx context.Context, donatorID string) ([]models.Qualification, error)
	Create(ctx context.Context, in qualificationService.CreateInput) (*models.Qualification, error)
	Update(ctx context.Context, id uint, in qualificationService.UpdateInput) (*models.Qualification, error)
	Delete(ctx context.Context, id uint) (*models.Qualification, error)
	AverageByCompany(ctx context.Context, companyID string) (*qualificationService.Averages, error)
}

type Controller struct {
	service QualificationService
	log     *zap.Logger
}

func New(service QualificationService, log *zap.Logger) *Controller {
	return &Controller{service: service, log: log.Named("qualifications")}
}

// fail maps a service error onto the response envelope. notFound is the
// message used when the error is a not-found signal.
func (ctl *Controller) fail(c *fiber.Ctx, err error, message, notFound string) error {
	var verr *qualificationValidator.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.ValidationErrorResponse(c, message, err, verr.Fields)
	case errors.Is(err, qualificationService.ErrCalificationsRequired):
		return middleware.ValidationErrorResponse(c, message, err, []qualificationValidator.FieldError{
			{Path: "qualityCalification", Message: err.Error()},
		})
	case errors.Is(err, qualificationService.ErrPartyRequired):
		return middleware.ValidationErrorResponse(c, message, err, []qualificationValidator.FieldError{
			{Path: "companyId", Message: err.Error()},
		})
	case errors.Is(err, qualificationService.ErrQualificationNotFound),
		errors.Is(err, qualificationService.ErrNoQualifications):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, notFound, nil)
	case errors.Is(err, qualificationService.ErrCalificationNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, notFound, err)
	}

	ctl.log.Error(message,
		zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
}

func qualificationID(c *fiber.Ctx) uint {
	return c.Locals(qualificationValidator.LocalQualificationID).(uint)
}

// GetQualificationsIDs returns the id of every qualification
func (ctl *Controller) GetQualificationsIDs(c *fiber.Ctx) error {
	ids, err := ctl.service.ListIDs(c.UserContext())
	if err != nil {
		return ctl.fail(c, err, "Failed to fetch qualification IDs!", "")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Qualification IDs fetched successfully!", ids)
}

// GetQualificationByID returns one qualification with its sub-ratings
func (ctl *Controller) GetQualificationByID(c *fiber.Ctx) error {
	qualification, err := ctl.service.GetByID(c.UserContext(), qualificationID(c))
	if err != nil {
		return ctl.fail(c, err, "Failed to fetch qualification!", "Qualification not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Qualification fetched successfully!", qualification)
}

func (ctl *Controller) GetAllQualifications(c *fiber.Ctx) error {
	qualifications, err := ctl.service.ListAll(c.UserContext())
	if err != nil {
		return ctl.fail(c, err, "Failed to fetch qualifications!", "")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Qualifications fetched successfully!", qualifications)
}

func (ctl *Controller) GetQualificationsByCompany(c *fiber.Ctx) error {
	qualifications, err := ctl.service.ListByCompany(c.UserContext(), c.Params("companyId"))
	if err != nil {
		return ctl.fail(c, err, "Failed to fetch company qualifications!", "")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Company qualifications fetched successfully!", qualifications)
}

func (ctl *Controller) GetQualificationsByDonator(c *fiber.Ctx) error {
	qualifications, err := ctl.service.ListByDonator(c.UserContext(), c.Params("donatorId"))
	if err != nil {
		return ctl.fail(c, err, "Failed to fetch donator qualifications!", "")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Donator qualifications fetched successfully!", qualifications)
}

// GetAverageQualificationByCompanyID returns the general and per-category averages of a company
func (ctl *Controller) GetAverageQualificationByCompanyID(c *fiber.Ctx) error {
	averages, err := ctl.service.AverageByCompany(c.UserContext(), c.Params("companyId"))
	if err != nil {
		return ctl.fail(c, err, "Failed to calculate averages!", "No qualifications found for this company!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Averages calculated successfully!", averages)
}

// CreateQualification expects qualificationValidator.CreateQualification to run first
func (ctl *Controller) CreateQualification(c *fiber.Ctx) error {
	payload := c.Locals(qualificationValidator.LocalCreatePayload).(*qualificationValidator.CreatePayload)

	in := qualificationService.CreateInput{
		DonationID:     payload.DonationID,
		CompanyID:      payload.CompanyID,
		DonatorID:      payload.DonatorID,
		OrganizationID: payload.OrganizationID,
		GeneralScore:   *payload.GeneralScore,
		Notes:          payload.Notes,
		Califications:  map[models.CalificationCategory]qualificationService.CalificationInput{},
	}
	for category, cal := range payload.Califications() {
		in.Califications[category] = qualificationService.CalificationInput{
			Score:    *cal.Score,
			Comments: cal.Comments,
		}
	}

	qualification, err := ctl.service.Create(c.UserContext(), in)
	if err != nil {
		return ctl.fail(c, err, "Failed to create qualification!", "")
	}

	ctl.log.Info("qualification created",
		zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.Uint("id", qualification.ID),
	)
	return middleware.JsonResponse(c, fiber.StatusOK, "Qualification created successfully!", qualification)
}

// UpdateQualification expects the id and update validators to run first
func (ctl *Controller) UpdateQualification(c *fiber.Ctx) error {
	payload := c.Locals(qualificationValidator.LocalUpdatePayload).(*qualificationValidator.UpdatePayload)

	in := qualificationService.UpdateInput{
		DonationID:     payload.DonationID,
		CompanyID:      payload.CompanyID,
		DonatorID:      payload.DonatorID,
		OrganizationID: payload.OrganizationID,
		GeneralScore:   payload.GeneralScore,
		Notes:          payload.Notes,
		Califications:  map[models.CalificationCategory]qualificationService.CalificationPatch{},
	}
	for category, patch := range payload.Califications() {
		in.Califications[category] = qualificationService.CalificationPatch{
			ID:       *patch.ID,
			Score:    patch.Score,
			Comments: patch.Comments,
		}
	}

	qualification, err := ctl.service.Update(c.UserContext(), qualificationID(c), in)
	if err != nil {
		return ctl.fail(c, err, "Failed to update qualification!", "No qualification found with that ID!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Qualification updated successfully!", qualification)
}

// DeleteQualification removes a qualification and replies with what was deleted
func (ctl *Controller) DeleteQualification(c *fiber.Ctx) error {
	qualification, err := ctl.service.Delete(c.UserContext(), qualificationID(c))
	if err != nil {
		return ctl.fail(c, err, "Failed to delete qualification!", "No qualification found with that ID!")
	}

	ctl.log.Info("qualification deleted",
		zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.Uint("id", qualification.ID),
	)
	return middleware.JsonResponse(c, fiber.StatusOK, "Qualification deleted successfully!", qualification)
}
