package db

import (
	"fmt"

	types "github.com/yungbote/barky-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes adds the composite indexes used by list ordering. Both dialects accept
// CREATE INDEX IF NOT EXISTS.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_bookmark_owner_date", `CREATE INDEX IF NOT EXISTS idx_bookmark_owner_date ON bookmark (owner_id, date_added);`},
		{"idx_snippet_owner_created", `CREATE INDEX IF NOT EXISTS idx_snippet_owner_created ON snippet (owner_id, created);`},
		{"idx_user_token_user_expires", `CREATE INDEX IF NOT EXISTS idx_user_token_user_expires ON user_token (user_id, expires_at);`},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}
