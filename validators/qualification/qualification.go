package qualificationValidator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"loyalty/middleware"
	"loyalty/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Locals keys under which the middlewares below store validated input
const (
	LocalQualificationID = "validatedQualificationId"
	LocalCreatePayload   = "validatedCreateQualification"
	LocalUpdatePayload   = "validatedUpdateQualification"
)

// ErrInvalidIdentifier is returned by ParseID for anything that is not a positive integer
var ErrInvalidIdentifier = errors.New("invalid identifier")

// FieldError describes one rejected field by its JSON path
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		paths = append(paths, f.Path)
	}
	return "validation failed: " + strings.Join(paths, ", ")
}

type CalificationPayload struct {
	Score    *float64 `json:"score" validate:"required,gte=0,lte=5"`
	Comments string   `json:"comments"`
}

// CreatePayload is the body accepted when creating a qualification
type CreatePayload struct {
	DonationID     string   `json:"donationId" validate:"required"`
	CompanyID      string   `json:"companyId" validate:"required_without=DonatorID"`
	DonatorID      string   `json:"donatorId" validate:"required_without=CompanyID"`
	OrganizationID string   `json:"organizationId" validate:"required"`
	GeneralScore   *float64 `json:"generalScore" validate:"required,gte=0,lte=5"`
	Notes          string   `json:"notes"`

	QualityCalification       *CalificationPayload `json:"qualityCalification"`
	TimeCalification          *CalificationPayload `json:"timeCalification"`
	PackagingCalification     *CalificationPayload `json:"packagingCalification"`
	CommunicationCalification *CalificationPayload `json:"communicationCalification"`
}

// Califications returns the supplied sub-ratings keyed by category
func (p *CreatePayload) Califications() map[models.CalificationCategory]*CalificationPayload {
	out := make(map[models.CalificationCategory]*CalificationPayload, len(models.CalificationCategories))
	for category, c := range map[models.CalificationCategory]*CalificationPayload{
		models.CategoryQuality:       p.QualityCalification,
		models.CategoryTime:          p.TimeCalification,
		models.CategoryPackaging:     p.PackagingCalification,
		models.CategoryCommunication: p.CommunicationCalification,
	} {
		if c != nil {
			out[category] = c
		}
	}
	return out
}

// CalificationPatch addresses an existing sub-rating by its id
type CalificationPatch struct {
	ID       *uint    `json:"id" validate:"required,gt=0"`
	Score    *float64 `json:"score" validate:"omitnil,gte=0,lte=5"`
	Comments *string  `json:"comments"`
}

// UpdatePayload is the partial body accepted when updating a qualification
type UpdatePayload struct {
	DonationID     *string  `json:"donationId" validate:"omitnil,min=1"`
	CompanyID      *string  `json:"companyId"`
	DonatorID      *string  `json:"donatorId"`
	OrganizationID *string  `json:"organizationId" validate:"omitnil,min=1"`
	GeneralScore   *float64 `json:"generalScore" validate:"omitnil,gte=0,lte=5"`
	Notes          *string  `json:"notes"`

	QualityCalification       *CalificationPatch `json:"qualityCalification"`
	TimeCalification          *CalificationPatch `json:"timeCalification"`
	PackagingCalification     *CalificationPatch `json:"packagingCalification"`
	CommunicationCalification *CalificationPatch `json:"communicationCalification"`
}

func (p *UpdatePayload) Califications() map[models.CalificationCategory]*CalificationPatch {
	out := make(map[models.CalificationCategory]*CalificationPatch, len(models.CalificationCategories))
	for category, c := range map[models.CalificationCategory]*CalificationPatch{
		models.CategoryQuality:       p.QualityCalification,
		models.CategoryTime:          p.TimeCalification,
		models.CategoryPackaging:     p.PackagingCalification,
		models.CategoryCommunication: p.CommunicationCalification,
	} {
		if c != nil {
			out[category] = c
		}
	}
	return out
}

// UpdateResult is the outcome of the permissive update validation
type UpdateResult struct {
	Success bool
	Data    *UpdatePayload
	Errors  []FieldError
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(CreatePayload)
		if len(p.Califications()) == 0 {
			sl.ReportError(p.QualityCalification, "qualityCalification", "QualityCalification", "califications", "")
		}
	}, CreatePayload{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(UpdatePayload)
		if p.CompanyID != nil && p.DonatorID != nil && *p.CompanyID == "" && *p.DonatorID == "" {
			sl.ReportError(p.CompanyID, "companyId", "CompanyID", "party", "")
		}
	}, UpdatePayload{})

	return v
}

// ParseID converts a path identifier into a qualification id
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return uint(id), nil
}

// ValidateCreate decodes and checks a create body; any failure is a *ValidationError.
func ValidateCreate(body []byte) (*CreatePayload, error) {
	payload := new(CreatePayload)
	if err := json.Unmarshal(body, payload); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Path: "body", Message: err.Error()}}}
	}

	if err := validate.Struct(payload); err != nil {
		return nil, &ValidationError{Fields: fieldErrors(err)}
	}

	return payload, nil
}

// ValidateUpdate decodes and checks an update body, collecting every failure.
func ValidateUpdate(body []byte) UpdateResult {
	payload := new(UpdatePayload)
	if err := json.Unmarshal(body, payload); err != nil {
		return UpdateResult{Errors: []FieldError{{Path: "body", Message: err.Error()}}}
	}

	if err := validate.Struct(payload); err != nil {
		return UpdateResult{Errors: fieldErrors(err)}
	}

	return UpdateResult{Success: true, Data: payload}
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Path: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, FieldError{Path: path, Message: path + " " + describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when neither companyId nor donatorId is given"
	case "gte", "lte":
		return "must be between 0 and 5"
	case "gt":
		return "must be a positive integer"
	case "min":
		return "must not be empty"
	case "califications":
		return "at least one calification is required"
	case "party":
		return "cannot be cleared together with donatorId"
	default:
		return "is incorrect"
	}
}

// CreateQualification validates the create body and stores it for the controller
func CreateQualification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := ValidateCreate(c.Body())
		if err != nil {
			var verr *ValidationError
			errors.As(err, &verr)
			return middleware.ValidationErrorResponse(c, "Invalid qualification data!", err, verr.Fields)
		}

		c.Locals(LocalCreatePayload, payload)
		return c.Next()
	}
}

// UpdateQualification validates the partial update body and stores it for the controller
func UpdateQualification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := ValidateUpdate(c.Body())
		if !result.Success {
			return middleware.ValidationErrorResponse(c, "Invalid update data!", &ValidationError{Fields: result.Errors}, result.Errors)
		}

		c.Locals(LocalUpdatePayload, result.Data)
		return c.Next()
	}
}

// QualificationID validates the :id path parameter
func QualificationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c.Params("id"))
		if err != nil {
			return middleware.ValidationErrorResponse(c, "Invalid ID!", err, []FieldError{
				{Path: "id", Message: "id must be a positive integer"},
			})
		}

		c.Locals(LocalQualificationID, id)
		return c.Next()
	}
}
