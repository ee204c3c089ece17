package qualificationRoutes

import (
	qualificationController "loyalty/controllers/qualification"
	qualificationValidator "loyalty/validators/qualification"

	"github.com/gofiber/fiber/v2"
)

// SetupQualificationRoutes mounts the qualification API on router
func SetupQualificationRoutes(router fiber.Router, ctl *qualificationController.Controller) {
	router.Get("/qualificationsIDs", ctl.GetQualificationsIDs)
	router.Get("/qualificationsAll", ctl.GetAllQualifications)

	// Company and donator views (MUST come before /:id)
	router.Get("/qualifications/average/:companyId", ctl.GetAverageQualificationByCompanyID)
	router.Get("/qualifications/company/:companyId", ctl.GetQualificationsByCompany)
	router.Get("/qualifications/donator/:donatorId", ctl.GetQualificationsByDonator)

	// CRUD
	router.Post("/qualifications", qualificationValidator.CreateQualification(), ctl.CreateQualification)
	router.Get("/qualifications/:id", qualificationValidator.QualificationID(), ctl.GetQualificationByID)
	router.Put("/qualifications/:id", qualificationValidator.QualificationID(), qualificationValidator.UpdateQualification(), ctl.UpdateQualification)
	router.Delete("/qualifications/:id", qualificationValidator.QualificationID(), ctl.DeleteQualification)
}
