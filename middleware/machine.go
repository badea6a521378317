package middleware

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/model"
	"bus_portal/utils"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MachineAccess resolves the kiosk from :code. With ?public=true the call is
// accepted without a session, but only for machines flagged public and ONLINE;
// heartbeats skip the ONLINE check so an offline kiosk can report back.
// Otherwise an ADMIN or VENDOR session is required.
func MachineAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var machine model.Machine
		if err := database.DB.Where("code = ?", c.Params("code")).First(&machine).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MACHINE_NOT_FOUND, nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		if c.Query("public") == "true" {
			if !machine.IsPublic {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "Machine does not accept public requests", nil)
			}
			if machine.Status != constants.MACHINE_ONLINE && !strings.HasSuffix(c.Path(), "/heartbeat") {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "Machine is not online", nil)
			}
		} else {
			claim, err := authenticate(c)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
			}
			if !utils.IsValidValueOfConstant(claim.Role, []string{constants.ROLE_ADMIN, constants.ROLE_VENDOR}) {
				return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
			}
			c.Locals("claim", claim)
		}

		c.Locals("machine", machine)
		return c.Next()
	}
}
