package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spidersno1/job-accelerator/internal/model"
)

// newTestDB 每个测试用例独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.SkillReport{},
		&model.Job{},
		&model.JobMatch{},
		&model.LearningPath{},
		&model.LearningTask{},
	))
	return db
}
