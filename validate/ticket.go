package validate

import (
	"bus_portal/constants"
	"bus_portal/domain"
	"bus_portal/model"
	"bus_portal/utils"

	"github.com/gofiber/fiber/v2"
)

func BookTicket() fiber.Handler {
	return body[model.BookTicketInput]("bookTicketInput")
}

func CreateReview() fiber.Handler {
	return body[model.CreateReviewInput]("createReviewInput")
}

func EditReview() fiber.Handler {
	return body[model.EditReviewInput]("editReviewInput")
}

func FilterTransactions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterTransactionInput
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.Type != "" && !utils.IsValidValueOfConstant(input.Type, []string{
			constants.TRANSACTION_PAYMENT, constants.TRANSACTION_REFUND,
		}) {
			return utils.HandleError(c, domain.ValidationError{Field: "type", Msg: "unknown transaction type"})
		}
		if input.Status != "" && !utils.IsValidValueOfConstant(input.Status, []string{
			constants.TRANSACTION_PENDING, constants.TRANSACTION_COMPLETED, constants.TRANSACTION_FAILED,
		}) {
			return utils.HandleError(c, domain.ValidationError{Field: "status", Msg: "unknown transaction status"})
		}
		c.Locals("filterTransactionInput", input)
		return c.Next()
	}
}
