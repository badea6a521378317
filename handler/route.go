package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	publicRoutesCacheKey = "routes:public"
	publicRoutesCacheTTL = 5 * time.Minute
)

func GetPublicRoutes(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var routes []model.Route
	if helper.CacheGet(ctx, publicRoutesCacheKey, &routes) {
		return utils.SuccessResponse(c, fiber.StatusOK, routes)
	}

	if err := database.DB.Where("is_active = ?", true).Order("origin asc, destination asc").Find(&routes).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	helper.CacheSet(ctx, publicRoutesCacheKey, routes, publicRoutesCacheTTL)
	return utils.SuccessResponse(c, fiber.StatusOK, routes)
}

func GetAdminRoutes(c *fiber.Ctx) error {
	db := database.DB
	var filter model.Pagination
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	query := db.Model(&model.Route{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("origin LIKE ? OR destination LIKE ?", like, like)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	var routes []model.Route
	query = utils.ApplyPagination(query.Order("id desc"), filter.Limit, filter.Page)
	if err := query.Find(&routes).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       routes,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func CreateRoute(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("createRouteInput").(model.CreateRouteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var count int64
	if err := db.Model(&model.Route{}).Where("origin = ? AND destination = ?", input.Origin, input.Destination).Count(&count).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if count > 0 {
		return utils.HandleError(c, domain.ConflictError{Resource: "route", Msg: "route already exists"})
	}

	route := model.Route{
		Origin:          input.Origin,
		Destination:     input.Destination,
		DistanceKm:      input.DistanceKm,
		DurationMinutes: input.DurationMinutes,
		BasePrice:       input.BasePrice,
		IsActive:        true,
	}
	route.Slug = helper.GenerateUniqueRouteSlug(db, route.Origin, route.Destination, 0)

	if err := db.Create(&route).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}
	helper.CacheDelete(c.UserContext(), publicRoutesCacheKey)
	return utils.SuccessResponse(c, fiber.StatusCreated, route)
}

func EditRoute(c *fiber.Ctx) error {
	db := database.DB
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}
	input, ok := c.Locals("editRouteInput").(model.EditRouteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var route model.Route
	if err := db.First(&route, id).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "route", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	renamed := false
	if input.Origin != nil && *input.Origin != route.Origin {
		route.Origin = *input.Origin
		renamed = true
	}
	if input.Destination != nil && *input.Destination != route.Destination {
		route.Destination = *input.Destination
		renamed = true
	}
	if route.Origin == route.Destination {
		return utils.HandleError(c, domain.ValidationError{Field: "destination", Msg: "must differ from origin"})
	}
	if input.DistanceKm != nil {
		route.DistanceKm = *input.DistanceKm
	}
	if input.DurationMinutes != nil {
		route.DurationMinutes = *input.DurationMinutes
	}
	if input.BasePrice != nil {
		route.BasePrice = *input.BasePrice
	}
	if renamed {
		route.Slug = helper.GenerateUniqueRouteSlug(db, route.Origin, route.Destination, route.ID)
	}

	if err := db.Save(&route).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	helper.CacheDelete(c.UserContext(), publicRoutesCacheKey)
	return utils.SuccessResponse(c, fiber.StatusOK, route)
}

// ToggleRouteActive flips is_active. Inactive routes disappear from the
// public listing and trip search but keep their trips.
func ToggleRouteActive(c *fiber.Ctx) error {
	db := database.DB
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	var route model.Route
	if err := db.First(&route, id).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "route", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	route.IsActive = !route.IsActive
	if err := db.Model(&model.Route{}).Where("id = ?", route.ID).Update("is_active", route.IsActive).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	helper.CacheDelete(c.UserContext(), publicRoutesCacheKey)
	return utils.SuccessResponse(c, fiber.StatusOK, route)
}
