// Package testutil 测试用的数据库、Redis 与数据构造工具
package testutil

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB 每个测试一个独立的内存 SQLite 库，已完成迁移
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("OpenDB(): %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate(): %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// OpenRedis 基于 miniredis 的客户端，返回服务端以便控制过期时间
func OpenRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func CreateUser(t *testing.T, db *gorm.DB, name, email string) model.User {
	t.Helper()
	u := model.User{Name: name, Email: email, Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return u
}

func CreateCourse(t *testing.T, db *gorm.DB, name, description string) model.Course {
	t.Helper()
	c := model.Course{Name: name, Description: description, Image: "courses/" + name + ".png"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return c
}

func CreateLesson(t *testing.T, db *gorm.DB, courseID uint, index int, title string) model.Lesson {
	t.Helper()
	l := model.Lesson{CourseID: courseID, Index: index, Title: title, Content: "# " + title}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}
	return l
}

func CompleteLesson(t *testing.T, db *gorm.DB, userID, lessonID uint) {
	t.Helper()
	lc := model.LessonCompletion{UserID: userID, LessonID: lessonID, IsCompleted: true}
	if err := db.Create(&lc).Error; err != nil {
		t.Fatalf("CompleteLesson(): %v", err)
	}
}
