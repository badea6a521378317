package validate

import (
	"bus_portal/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return body[model.RegisterInput]("registerInput")
}

func Login() fiber.Handler {
	return body[model.LoginInput]("loginInput")
}

func ForgotPassword() fiber.Handler {
	return body[model.ForgotPasswordRequest]("forgotPasswordInput")
}

func ResetPassword() fiber.Handler {
	return body[model.ResetPasswordRequest]("resetPasswordInput")
}

func CreateVendor() fiber.Handler {
	return body[model.CreateVendorInput]("createVendorInput")
}
