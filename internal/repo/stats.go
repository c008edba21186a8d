// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate query used for
// conditional responses (ETag generation) on the user listing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/christian-bayata/user-auth-api/internal/domain"
)

// UsersStats returns the total number of users and the greatest UpdatedAt
// among them. With no users the count is 0 and maxUpdatedAt is nil.
//
// Any write to a user bumps UpdatedAt, so the pair changes whenever a page of
// the listing could.
func UsersStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.User{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
