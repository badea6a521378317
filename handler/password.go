package handler

import (
	"bus_portal/config"
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jordan-wright/email"
	"gorm.io/gorm"
)

const resetTokenTTL = 30 * time.Minute

func ForgotPassword(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("forgotPasswordInput").(model.ForgotPasswordRequest)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	done := func() error {
		return utils.SuccessResponse(c, fiber.StatusOK, "If the email is registered, a reset link has been sent")
	}

	user, err := helper.GetUserByEmail(db, input.Email)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if user == nil {
		return done()
	}

	reset := model.PasswordResetToken{
		UserId:    user.ID,
		Token:     utils.GenerateResetToken(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := db.Create(&reset).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}

	go sendResetEmail(user.Email, reset.Token)
	return done()
}

func sendResetEmail(to, token string) {
	host := config.Config("SMTP_HOST")
	if host == "" {
		log.Printf("SMTP not configured, reset token for %s not mailed", to)
		return
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", config.Config("APP_URL"), token)

	e := email.NewEmail()
	e.From = config.Config("SMTP_FROM")
	e.To = []string{to}
	e.Subject = "Reset your bus portal password"
	e.HTML = []byte(fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password. The link expires in 30 minutes.</p>`, link))

	port := config.ConfigDefault("SMTP_PORT", "587")
	auth := smtp.PlainAuth("", config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"), host)
	if err := e.Send(host+":"+port, auth); err != nil {
		log.Printf("Failed to send reset email to %s: %v", to, err)
	}
}

func ResetPassword(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("resetPasswordInput").(model.ResetPasswordRequest)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var reset model.PasswordResetToken
	if err := db.Where("token = ? AND expires_at > ?", input.Token, time.Now()).First(&reset).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.ValidationError{Field: "token", Msg: "invalid or expired token"})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.CAN_NOT_HASH_PASSWORD, Err: err})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", reset.UserId).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", reset.UserId).Delete(&model.PasswordResetToken{}).Error
	})
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Password has been reset")
}
