package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the secondary indexes the hot lookups depend on:
// token and email resolution, list membership, and per-member gift pages.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"lists", "idx_lists_owner_uuid", "owner_uuid"},

		{"list_members", "idx_list_members_list_uuid", "list_uuid"},
		{"list_members", "idx_list_members_user_uuid", "user_uuid"},

		{"gifts", "idx_gifts_owner_uuid", "owner_uuid"},
		{"gifts", "idx_gifts_claimed_by_uuid", "claimed_by_uuid"},

		{"list_gifts", "idx_list_gifts_list_owner", "list_uuid, owner_uuid"},
		{"list_gifts", "idx_list_gifts_gift_uuid", "gift_uuid"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
