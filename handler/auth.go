package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func Register(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("registerInput").(model.RegisterInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	input.Email = helper.NormalizeEmail(input.Email)

	exists, err := helper.CheckEmailExists(db, input.Email)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if exists {
		return utils.HandleError(c, domain.ConflictError{Msg: constants.EMAIL_EXISTS})
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.CAN_NOT_HASH_PASSWORD, Err: err})
	}

	user := new(model.User)
	copier.Copy(user, &input)
	user.Password = hash
	user.Role = constants.ROLE_USER
	user.IsActive = true

	if err := db.Create(user).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return utils.HandleError(c, domain.ConflictError{Msg: constants.EMAIL_EXISTS, Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}

	log.Printf("Registered user %d (%s)", user.ID, user.Email)
	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func Login(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("loginInput").(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, nil)
	}

	user, err := helper.GetUserByEmail(db, input.Email)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if user == nil {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: constants.INVALID_EMAIL})
	}
	if !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: constants.INVALID_PASSWORD})
	}
	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	claim := model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role}
	if user.Role == constants.ROLE_VENDOR {
		vendorId, err := helper.VendorIdForUser(db, user.ID)
		if err != nil {
			return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
		}
		claim.VendorId = vendorId
	}

	accessToken, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	refreshToken, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	helper.SetSessionCookies(c, accessToken, refreshToken)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"role":     user.Role,
			"vendorId": claim.VendorId,
		},
		"tokens": model.TokenData{AccessToken: accessToken, RefreshToken: refreshToken},
	})
}

func RefreshToken(c *fiber.Ctx) error {
	raw := c.Cookies("refresh_token")
	if raw == "" {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: "refresh token not found"})
	}
	token, err := helper.ParseToken(raw)
	if err != nil || !token.Valid {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: "invalid refresh token"})
	}
	claim, err := helper.ClaimFromToken(token, "refresh")
	if err != nil {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: err.Error()})
	}

	// role or activation may have changed since the refresh token was issued
	var user model.User
	if err := database.DB.First(&user, claim.UserId).Error; err != nil || !user.IsActive {
		return utils.HandleError(c, domain.UnauthorizedError{Msg: "account no longer available"})
	}
	claim.Role = user.Role
	claim.Email = user.Email
	claim.VendorId = nil
	if user.Role == constants.ROLE_VENDOR {
		vendorId, err := helper.VendorIdForUser(database.DB, user.ID)
		if err != nil {
			return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
		}
		claim.VendorId = vendorId
	}

	accessToken, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not generate access token", Err: err})
	}
	refreshToken, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not generate refresh token", Err: err})
	}
	helper.SetSessionCookies(c, accessToken, refreshToken)

	return utils.SuccessResponse(c, fiber.StatusOK, model.TokenData{AccessToken: accessToken, RefreshToken: refreshToken})
}

func Logout(c *fiber.Ctx) error {
	helper.ClearSessionCookies(c)
	return utils.SuccessResponse(c, fiber.StatusOK, "logged out")
}

func Me(c *fiber.Ctx) error {
	claim, ok := helper.GetClaim(c)
	if !ok {
		return utils.HandleError(c, domain.UnauthorizedError{})
	}
	var user model.User
	if err := database.DB.Preload("Vendor").First(&user, claim.UserId).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "user", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}
