package handler

import (
	"bus_portal/domain"
	"bus_portal/utils"
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
)

func GetTicketPDF(c *fiber.Ctx) error {
	ticket, err := ticketForRequest(c)
	if ticket == nil {
		return err
	}

	png, err := utils.GenerateQRCode(ticket.QrCode, qrImageSize)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not render QR code", Err: err})
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Boarding pass "+ticket.QrCode, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOARDING PASS")
	pdf.Ln(12)

	seat := "-"
	if ticket.Seat != nil {
		seat = ticket.Seat.SeatNumber
	}
	lines := []string{
		"Code       : " + ticket.QrCode,
		"Passenger  : " + ticket.PassengerName,
		"Route      : " + ticket.Trip.Route.Origin + " - " + ticket.Trip.Route.Destination,
		"Departure  : " + ticket.Trip.DepartureTime.Format("02/01/2006 15:04"),
		"Bus        : " + ticket.Trip.Bus.PlateNumber,
		"Seat       : " + seat,
		fmt.Sprintf("Price      : %.2f", ticket.Price),
		"Status     : " + ticket.Status,
	}
	pdf.SetFont("Courier", "", 11)
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 44, pdf.GetY()+4, 60, 60, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 68)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Show this code to the driver before boarding. Valid for one passenger and one seat.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not render boarding pass", Err: err})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, ticket.QrCode))
	return c.Send(buf.Bytes())
}
