package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const busImageFolder = "bus_portal/buses"

// GenerateUploadSignature signs a direct browser upload into the vendor's
// bus photo folder.
func GenerateUploadSignature(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	cld := helper.Cloudinary
	if cld == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, helper.ErrCloudinaryDisabled.Error(), nil)
	}

	type sigParams struct {
		PublicId string `json:"public_id"`
	}
	var input sigParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
	}

	timestamp := time.Now().Unix()
	folder := fmt.Sprintf("%s/%d", busImageFolder, vendorId)
	params := url.Values{}
	params.Set("folder", folder)
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if input.PublicId != "" {
		params.Set("public_id", input.PublicId)
	}

	signature, err := api.SignParameters(params, cld.Config.Cloud.APISecret)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not sign upload", Err: err})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"folder":    folder,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
	})
}

// UploadBusImage uploads a multipart "image" through the server and stores the
// resulting URL on the bus.
func UploadBusImage(c *fiber.Ctx) error {
	db := database.DB
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	cld := helper.Cloudinary
	if cld == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, helper.ErrCloudinaryDisabled.Error(), nil)
	}
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	var bus model.Bus
	if err := db.Where("id = ? AND vendor_id = ?", id, vendorId).First(&bus).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "bus", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.HandleError(c, domain.ValidationError{Field: "image", Msg: "image file is required", Err: err})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not read upload", Err: err})
	}
	defer file.Close()

	res, err := cld.Upload.Upload(c.UserContext(), file, uploader.UploadParams{
		Folder:       fmt.Sprintf("%s/%d", busImageFolder, vendorId),
		PublicID:     fmt.Sprintf("bus_%d_%d", bus.ID, time.Now().Unix()),
		ResourceType: "image",
	})
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "upload failed", Err: err})
	}

	if err := db.Model(&model.Bus{}).Where("id = ?", bus.ID).Update("image_url", res.SecureURL).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	bus.ImageUrl = res.SecureURL
	return utils.SuccessResponse(c, fiber.StatusOK, bus)
}
