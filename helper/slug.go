package helper

import (
	"bus_portal/model"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueRouteSlug builds "origin-destination", suffixed until unused.
func GenerateUniqueRouteSlug(tx *gorm.DB, origin, destination string, excludeId uint) string {
	base := slug.Make(origin + " " + destination)
	result := base
	i := 1

	for {
		var count int64
		q := tx.Model(&model.Route{}).Where("slug = ?", result)
		if excludeId > 0 {
			q = q.Where("id <> ?", excludeId)
		}
		q.Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
