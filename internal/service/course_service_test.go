package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"
	"course_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type courseFixture struct {
	db       *gorm.DB
	svc      *CourseService
	progress *ProgressService
	storage  string
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	dir := t.TempDir()

	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	lessons := repository.NewLessonRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	progress := NewProgressService(enrollments, repository.NewLessonCompletionRepository(db), lessons)

	return &courseFixture{
		db:       db,
		progress: progress,
		storage:  dir,
		svc: NewCourseService(
			repository.NewCourseRepository(db),
			lessons,
			enrollments,
			progress,
			NewStorageService(cfg),
			NewMarkdownRenderer(),
		),
	}
}

func (f *courseFixture) enrollment(t *testing.T, userID, courseID uint) *model.CourseEnrollment {
	t.Helper()
	var e model.CourseEnrollment
	err := f.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil
	}
	return &e
}

func TestShowCourseAnonymousRedirectsToFirstLesson(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, f.db, "Arabic Basics", "")
	testutil.CreateLesson(t, f.db, course.ID, 2, "Numbers")
	first := testutil.CreateLesson(t, f.db, course.ID, 1, "Alphabet")

	page, current, err := f.svc.ShowCourse(ctx, course.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, page)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)

	var count int64
	f.db.Model(&model.CourseEnrollment{}).Count(&count)
	assert.Zero(t, count)
}

func TestShowCourseEnrollsAndPicksFirstIncomplete(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, f.db, "Arabic Basics", "")
	l1 := testutil.CreateLesson(t, f.db, course.ID, 1, "Alphabet")
	l2 := testutil.CreateLesson(t, f.db, course.ID, 2, "Numbers")
	testutil.CompleteLesson(t, f.db, user.ID, l1.ID)

	_, current, err := f.svc.ShowCourse(ctx, course.ID, &user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, l2.ID, current.ID)

	e := f.enrollment(t, user.ID, course.ID)
	require.NotNil(t, e)
	assert.False(t, e.IsCompleted)

	// 重复进入不会产生第二条报名记录
	_, _, err = f.svc.ShowCourse(ctx, course.ID, &user.ID)
	require.NoError(t, err)
	var count int64
	f.db.Model(&model.CourseEnrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestShowCourseWithoutLessonsReturnsOverview(t *testing.T) {
	f := newCourseFixture(t)
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, f.db, "Empty", "soon")

	page, current, err := f.svc.ShowCourse(context.Background(), course.ID, &user.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
	require.NotNil(t, page)
	assert.Equal(t, "Empty", page.Course.Name)
	assert.Empty(t, page.Lessons)
	assert.False(t, page.Course.IsCompleted)
	assert.NotNil(t, f.enrollment(t, user.ID, course.ID))
}

func TestShowCourseNotFound(t *testing.T) {
	f := newCourseFixture(t)
	_, _, err := f.svc.ShowCourse(context.Background(), 42, nil)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestShowLessonValidatesOwnership(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	a := testutil.CreateCourse(t, f.db, "A", "")
	b := testutil.CreateCourse(t, f.db, "B", "")
	lessonB := testutil.CreateLesson(t, f.db, b.ID, 1, "B1")

	_, err := f.svc.ShowLesson(ctx, a.ID, lessonB.ID, nil)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)

	_, err = f.svc.ShowLesson(ctx, a.ID, 999, nil)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	_, err = f.svc.ShowLesson(ctx, 999, lessonB.ID, nil)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	assert.True(t, util.IsNotFound(err))
}

func TestShowLessonAnonymousDoesNotTrack(t *testing.T) {
	f := newCourseFixture(t)
	course := testutil.CreateCourse(t, f.db, "Arabic Basics", "")
	l1 := testutil.CreateLesson(t, f.db, course.ID, 1, "Alphabet")

	page, err := f.svc.ShowLesson(context.Background(), course.ID, l1.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, page.CurrentLesson)
	assert.False(t, page.CurrentLesson.IsCompleted)

	var count int64
	f.db.Model(&model.LessonCompletion{}).Count(&count)
	assert.Zero(t, count)
}

func TestShowLessonTracksProgressUntilCourseComplete(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, f.db, "Arabic Basics", "")
	l1 := testutil.CreateLesson(t, f.db, course.ID, 1, "Alphabet")
	l2 := testutil.CreateLesson(t, f.db, course.ID, 2, "Numbers")

	page, err := f.svc.ShowLesson(ctx, course.ID, l1.ID, &user.ID)
	require.NoError(t, err)
	require.NotNil(t, page.CurrentLesson)
	assert.Equal(t, l1.ID, page.CurrentLesson.ID)
	assert.True(t, page.CurrentLesson.IsCompleted)
	assert.Contains(t, page.CurrentLesson.ContentHTML, "<h1")
	assert.Contains(t, page.CurrentLesson.ContentHTML, "Alphabet")
	assert.False(t, page.Course.IsCompleted)
	require.Len(t, page.Lessons, 2)
	assert.Empty(t, page.Lessons[1].ContentHTML)

	page, err = f.svc.ShowLesson(ctx, course.ID, l2.ID, &user.ID)
	require.NoError(t, err)
	assert.True(t, page.Course.IsCompleted)
	for _, l := range page.Lessons {
		assert.True(t, l.IsCompleted)
	}

	// 全部完成后进入课程回到第一课
	_, current, err := f.svc.ShowCourse(ctx, course.ID, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, l1.ID, current.ID)
}

func TestCourseCompletionIsOneWay(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, f.db, "Arabic Basics", "")
	l1 := testutil.CreateLesson(t, f.db, course.ID, 1, "Alphabet")

	require.NoError(t, f.svc.CompleteLesson(ctx, course.ID, l1.ID, user.ID))
	// 未报名时重新判定只是空操作
	assert.Nil(t, f.enrollment(t, user.ID, course.ID))

	_, err := f.progress.EnsureEnrolled(ctx, user.ID, course.ID)
	require.NoError(t, err)
	done, err := f.progress.RecomputeCourseCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, done)

	testutil.CreateLesson(t, f.db, course.ID, 2, "New lesson")
	done, err = f.progress.RecomputeCourseCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, done)
	assert.True(t, f.enrollment(t, user.ID, course.ID).IsCompleted)
}

func TestRecomputeWithoutLessons(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, f.db, "Empty", "")
	_, err := f.progress.EnsureEnrolled(ctx, user.ID, course.ID)
	require.NoError(t, err)

	done, err := f.progress.RecomputeCourseCompletion(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, f.enrollment(t, user.ID, course.ID).IsCompleted)
}

func TestListCourses(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "Ana", "ana@test.dev")
	done := testutil.CreateCourse(t, f.db, "Done", "")
	open := testutil.CreateCourse(t, f.db, "Open", "")

	require.NoError(t, os.MkdirAll(filepath.Join(f.storage, "courses"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.storage, done.Image), []byte("png"), 0o644))

	_, err := f.progress.EnsureEnrolled(ctx, user.ID, done.ID)
	require.NoError(t, err)
	_, err = repository.NewEnrollmentRepository(f.db).MarkCompleted(ctx, user.ID, done.ID)
	require.NoError(t, err)

	views, err := f.svc.ListCourses(ctx, &user.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, done.ID, views[0].ID)
	assert.True(t, views[0].IsCompleted)
	assert.Equal(t, "/uploads/"+done.Image, views[0].ImageURL)
	assert.Equal(t, open.ID, views[1].ID)
	assert.False(t, views[1].IsCompleted)
	assert.Empty(t, views[1].ImageURL)

	anonymous, err := f.svc.ListCourses(ctx, nil)
	require.NoError(t, err)
	assert.False(t, anonymous[0].IsCompleted)
}
