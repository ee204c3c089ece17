package qualificationController

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"loyalty/models"
	qualificationService "loyalty/services/qualification"
	qualificationValidator "loyalty/validators/qualification"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fakeService returns canned results and records what it was asked for.
type fakeService struct {
	qualification *models.Qualification
	averages      *qualificationService.Averages
	err           error

	createdWith *qualificationService.CreateInput
	updatedWith *qualificationService.UpdateInput
	calledID    uint
}

func (f *fakeService) ListIDs(context.Context) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []uint{1, 2, 3}, nil
}

func (f *fakeService) GetByID(_ context.Context, id uint) (*models.Qualification, error) {
	f.calledID = id
	return f.qualification, f.err
}

func (f *fakeService) ListAll(context.Context) ([]models.Qualification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Qualification{}, nil
}

func (f *fakeService) ListByCompany(context.Context, string) ([]models.Qualification, error) {
	return []models.Qualification{*f.qualification}, f.err
}

func (f *fakeService) ListByDonator(context.Context, string) ([]models.Qualification, error) {
	return []models.Qualification{*f.qualification}, f.err
}

func (f *fakeService) Create(_ context.Context, in qualificationService.CreateInput) (*models.Qualification, error) {
	f.createdWith = &in
	return f.qualification, f.err
}

func (f *fakeService) Update(_ context.Context, id uint, in qualificationService.UpdateInput) (*models.Qualification, error) {
	f.calledID = id
	f.updatedWith = &in
	return f.qualification, f.err
}

func (f *fakeService) Delete(_ context.Context, id uint) (*models.Qualification, error) {
	f.calledID = id
	return f.qualification, f.err
}

func (f *fakeService) AverageByCompany(context.Context, string) (*qualificationService.Averages, error) {
	return f.averages, f.err
}

func newTestApp(svc QualificationService) *fiber.App {
	ctl := New(svc, zap.NewNop())
	app := fiber.New()

	app.Get("/qualificationsIDs", ctl.GetQualificationsIDs)
	app.Get("/qualificationsAll", ctl.GetAllQualifications)
	app.Get("/qualifications/average/:companyId", ctl.GetAverageQualificationByCompanyID)
	app.Get("/qualifications/company/:companyId", ctl.GetQualificationsByCompany)
	app.Get("/qualifications/:id", qualificationValidator.QualificationID(), ctl.GetQualificationByID)
	app.Post("/qualifications", qualificationValidator.CreateQualification(), ctl.CreateQualification)
	app.Put("/qualifications/:id", qualificationValidator.QualificationID(), qualificationValidator.UpdateQualification(), ctl.UpdateQualification)
	app.Delete("/qualifications/:id", qualificationValidator.QualificationID(), ctl.DeleteQualification)
	return app
}

type envelope struct {
	Status   int                                 `json:"status"`
	Message  string                              `json:"message"`
	Response jsoniter.RawMessage                 `json:"response"`
	Error    string                              `json:"error"`
	Errors   []qualificationValidator.FieldError `json:"errors"`
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	assert.Equal(t, resp.StatusCode, env.Status, "envelope status mirrors HTTP status")
	return resp.StatusCode, env
}

func sample() *models.Qualification {
	return &models.Qualification{
		ID:             7,
		DonationID:     "don-1",
		CompanyID:      "comp-1",
		OrganizationID: "org-1",
		GeneralScore:   4,
		Califications: []models.Calification{
			{ID: 11, QualificationID: 7, Category: models.CategoryQuality, Score: 4, Comments: "ok"},
		},
	}
}

func TestGetQualificationsIDs(t *testing.T) {
	status, env := do(t, newTestApp(&fakeService{}), http.MethodGet, "/qualificationsIDs", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[1,2,3]`, string(env.Response))

	status, env = do(t, newTestApp(&fakeService{err: errors.New("db down")}), http.MethodGet, "/qualificationsIDs", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "db down", env.Error)
}

func TestGetQualificationByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeService{qualification: sample()}
		status, env := do(t, newTestApp(svc), http.MethodGet, "/qualifications/7", "")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, uint(7), svc.calledID)
		assert.Contains(t, string(env.Response), `"qualityCalification":{"id":11,"score":4,"comments":"ok"}`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeService{err: qualificationService.ErrQualificationNotFound}
		status, env := do(t, newTestApp(svc), http.MethodGet, "/qualifications/8", "")

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Qualification not found!", env.Message)
		assert.Empty(t, env.Response)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &fakeService{}
		status, env := do(t, newTestApp(svc), http.MethodGet, "/qualifications/seven", "")

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "id", env.Errors[0].Path)
		assert.Zero(t, svc.calledID)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &fakeService{err: &qualificationService.StorageError{Op: "get qualification", Err: errors.New("timeout")}}
		status, env := do(t, newTestApp(svc), http.MethodGet, "/qualifications/1", "")

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "get qualification: timeout", env.Error)
	})
}

func TestGetAllQualificationsEmpty(t *testing.T) {
	status, env := do(t, newTestApp(&fakeService{}), http.MethodGet, "/qualificationsAll", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Response))
}

func TestGetQualificationsByCompany(t *testing.T) {
	status, env := do(t, newTestApp(&fakeService{qualification: sample()}), http.MethodGet, "/qualifications/company/comp-1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Response), `"companyId":"comp-1"`)
}

func TestGetAverage(t *testing.T) {
	svc := &fakeService{averages: &qualificationService.Averages{Count: 2, AverageGeneralScore: 2.5, AverageQualityScore: 3}}
	status, env := do(t, newTestApp(svc), http.MethodGet, "/qualifications/average/comp-1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Response), `"averageGeneralScore":2.5`)
	assert.Contains(t, string(env.Response), `"averageQualityScore":3`)

	svc = &fakeService{err: qualificationService.ErrNoQualifications}
	status, env = do(t, newTestApp(svc), http.MethodGet, "/qualifications/average/comp-2", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No qualifications found for this company!", env.Message)
}

func TestCreateQualification(t *testing.T) {
	body := `{"donationId":"don-1","companyId":"comp-1","organizationId":"org-1","generalScore":4,
		"notes":"n","qualityCalification":{"score":4,"comments":"ok"},"timeCalification":{"score":2}}`

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{qualification: sample()}
		status, _ := do(t, newTestApp(svc), http.MethodPost, "/qualifications", body)

		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, svc.createdWith)
		assert.Equal(t, 4.0, svc.createdWith.GeneralScore)
		assert.Len(t, svc.createdWith.Califications, 2)
		assert.Equal(t, 2.0, svc.createdWith.Califications[models.CategoryTime].Score)
	})

	t.Run("validation failure replies 400", func(t *testing.T) {
		svc := &fakeService{}
		status, env := do(t, newTestApp(svc), http.MethodPost, "/qualifications", `{"generalScore":6}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, env.Errors)
		assert.Nil(t, svc.createdWith)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &fakeService{err: &qualificationService.StorageError{Op: "create qualification", Err: errors.New("constraint")}}
		status, env := do(t, newTestApp(svc), http.MethodPost, "/qualifications", body)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Failed to create qualification!", env.Message)
	})
}

func TestUpdateQualification(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		svc := &fakeService{qualification: sample()}
		status, _ := do(t, newTestApp(svc), http.MethodPut, "/qualifications/7",
			`{"generalScore":3,"qualityCalification":{"id":11,"comments":"better"}}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, uint(7), svc.calledID)
		require.NotNil(t, svc.updatedWith)
		assert.Equal(t, 3.0, *svc.updatedWith.GeneralScore)
		assert.Nil(t, svc.updatedWith.Notes)
		patch := svc.updatedWith.Califications[models.CategoryQuality]
		assert.Equal(t, uint(11), patch.ID)
		assert.Nil(t, patch.Score)
		assert.Equal(t, "better", *patch.Comments)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeService{err: qualificationService.ErrQualificationNotFound}
		status, env := do(t, newTestApp(svc), http.MethodPut, "/qualifications/99", `{"notes":"x"}`)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "No qualification found with that ID!", env.Message)
	})

	t.Run("structured validation errors", func(t *testing.T) {
		svc := &fakeService{}
		status, env := do(t, newTestApp(svc), http.MethodPut, "/qualifications/1", `{"generalScore":10,"timeCalification":{}}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Len(t, env.Errors, 2)
		assert.Nil(t, svc.updatedWith)
	})
}

func TestDeleteQualification(t *testing.T) {
	svc := &fakeService{qualification: sample()}
	status, env := do(t, newTestApp(svc), http.MethodDelete, "/qualifications/7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Response), `"qualityCalification"`)

	svc = &fakeService{err: qualificationService.ErrQualificationNotFound}
	status, _ = do(t, newTestApp(svc), http.MethodDelete, "/qualifications/7", "")
	assert.Equal(t, http.StatusNotFound, status)
}
