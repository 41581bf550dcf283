package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

// MigrateDB 自动迁移全部表结构。返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.Room{},
		&domain.Member{},
		&domain.BanEntry{},
		&domain.AssistantPermit{},
		&domain.CheckIn{},
		&domain.CheckInRecord{},
		&domain.Doc{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
