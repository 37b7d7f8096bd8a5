// Package repo is the GORM data access layer. Methods stay thin: querying and
// writing only, with business rules kept in the service layer.
package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
}
