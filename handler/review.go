package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"

	"github.com/gofiber/fiber/v2"
)

func GetReviews(c *fiber.Ctx) error {
	db := database.DB
	tripId, ok := c.Locals("tripId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var reviews []model.Review
	if err := db.Preload("User").Where("trip_id = ?", tripId).Order("created_at desc").Find(&reviews).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	average := 0.0
	if len(reviews) > 0 {
		average = float64(sum) / float64(len(reviews))
	}

	var mine *uint
	if claim, ok := helper.GetClaim(c); ok {
		for _, r := range reviews {
			if r.UserId == claim.UserId {
				id := r.ID
				mine = &id
				break
			}
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"reviews":       reviews,
		"averageRating": average,
		"total":         len(reviews),
		"myReviewId":    mine,
	})
}

func CreateReview(c *fiber.Ctx) error {
	db := database.DB
	claim, ok := helper.GetClaim(c)
	if !ok {
		return utils.HandleError(c, domain.UnauthorizedError{})
	}
	input, ok := c.Locals("createReviewInput").(model.CreateReviewInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var trip model.Trip
	if err := db.Select("id").First(&trip, input.TripId).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "trip", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	var count int64
	if err := db.Model(&model.Review{}).Where("user_id = ? AND trip_id = ?", claim.UserId, input.TripId).Count(&count).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if count > 0 {
		return utils.HandleError(c, domain.ConflictError{Resource: "review", Msg: constants.REVIEW_EXISTS})
	}

	review := model.Review{
		UserId:  claim.UserId,
		TripId:  input.TripId,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := db.Omit("User").Create(&review).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return utils.HandleError(c, domain.ConflictError{Resource: "review", Msg: constants.REVIEW_EXISTS, Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, review)
}

func reviewForRequest(c *fiber.Ctx) (*model.Review, error) {
	claim, ok := helper.GetClaim(c)
	if !ok {
		return nil, utils.HandleError(c, domain.UnauthorizedError{})
	}
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return nil, utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}
	var review model.Review
	if err := database.DB.First(&review, id).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, utils.HandleError(c, domain.NotFoundError{Resource: "review", Err: err})
		}
		return nil, utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if claim.Role != constants.ROLE_ADMIN && review.UserId != claim.UserId {
		return nil, utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	return &review, nil
}

func UpdateReview(c *fiber.Ctx) error {
	review, err := reviewForRequest(c)
	if review == nil {
		return err
	}
	input, ok := c.Locals("editReviewInput").(model.EditReviewInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if err := database.DB.Omit("User").Save(review).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, review)
}

func DeleteReview(c *fiber.Ctx) error {
	review, err := reviewForRequest(c)
	if review == nil {
		return err
	}
	if err := database.DB.Delete(&model.Review{}, review.ID).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not delete review", Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Review deleted")
}
