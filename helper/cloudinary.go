package helper

import (
	"bus_portal/config"
	"errors"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
)

var Cloudinary *cloudinary.Cloudinary

var ErrCloudinaryDisabled = errors.New("cloudinary is not configured")

// InitCloudinary builds the client from CLOUDINARY_* settings. Missing settings
// leave photo uploads disabled instead of stopping the server.
func InitCloudinary() {
	name := config.Config("CLOUDINARY_CLOUD_NAME")
	if name == "" {
		log.Println("CLOUDINARY_CLOUD_NAME not set, bus photo uploads disabled")
		return
	}
	cld, err := cloudinary.NewFromParams(
		name,
		config.Config("CLOUDINARY_API_KEY"),
		config.Config("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		log.Printf("Cloudinary init failed: %v", err)
		return
	}
	Cloudinary = cld
}
