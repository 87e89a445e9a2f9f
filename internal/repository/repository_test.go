package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnrollmentFirstOrCreateIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, db, "Arabic Basics", "letters")

	first, err := repo.FirstOrCreate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, first.IsCompleted)

	_, err = repo.MarkCompleted(ctx, user.ID, course.ID)
	require.NoError(t, err)

	// 已存在的记录不会被重置
	second, err := repo.FirstOrCreate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsCompleted)

	var count int64
	db.Model(&model.CourseEnrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollmentFirstOrCreateLosesInsertRace(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)
	user := testutil.CreateUser(t, db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")

	// 第一次查询未命中后，另一个请求抢先插入了同一行
	raced := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "user_courses" || !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return
		}
		raced = true
		require.NoError(t, db.Exec("INSERT INTO user_courses (user_id, course_id, is_completed) VALUES (?, ?, ?)",
			user.ID, course.ID, false).Error)
	}))

	enrollment, err := repo.FirstOrCreate(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.NotZero(t, enrollment.ID)
	assert.Equal(t, user.ID, enrollment.UserID)

	var count int64
	db.Model(&model.CourseEnrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentFirstVisits(t *testing.T) {
	db := testutil.OpenDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	enrollments := NewEnrollmentRepository(db)
	completions := NewLessonCompletionRepository(db)
	user := testutil.CreateUser(t, db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")
	lesson := testutil.CreateLesson(t, db, course.ID, 1, "Alphabet")

	const workers = 20
	ids := make([]uint, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := enrollments.FirstOrCreate(context.Background(), user.ID, course.ID)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = e.ID
			errs[i] = completions.MarkCompleted(context.Background(), user.ID, lesson.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	db.Model(&model.CourseEnrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&model.LessonCompletion{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollmentMarkCompletedWithoutRow(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewEnrollmentRepository(db)

	rows, err := repo.MarkCompleted(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestLessonCompletionUpsert(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLessonCompletionRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Ana", "ana@test.dev")
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")
	l1 := testutil.CreateLesson(t, db, course.ID, 1, "Alphabet")
	l2 := testutil.CreateLesson(t, db, course.ID, 2, "Numbers")
	other := testutil.CreateCourse(t, db, "Other", "")
	l3 := testutil.CreateLesson(t, db, other.ID, 1, "Elsewhere")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkCompleted(ctx, user.ID, l1.ID))
	}
	require.NoError(t, repo.MarkCompleted(ctx, user.ID, l3.ID))

	n, err := repo.Count(ctx, user.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	done, err := repo.CountCompletedInCourse(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), done)

	set, err := repo.CompletedLessonIDs(ctx, user.ID, []uint{l1.ID, l2.ID})
	require.NoError(t, err)
	assert.True(t, set[l1.ID])
	assert.False(t, set[l2.ID])

	empty, err := repo.CompletedLessonIDs(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLessonsOrderedByIndexThenID(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")
	c := testutil.CreateLesson(t, db, course.ID, 10, "C")
	a := testutil.CreateLesson(t, db, course.ID, 1, "A")
	b1 := testutil.CreateLesson(t, db, course.ID, 5, "B1")
	b2 := testutil.CreateLesson(t, db, course.ID, 5, "B2")

	lessons, err := NewLessonRepository(db).ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	var ids []uint
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []uint{a.ID, b1.ID, b2.ID, c.ID}, ids)

	loaded, err := NewCourseRepository(db).FindWithLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 4)
	assert.Equal(t, a.ID, loaded.Lessons[0].ID)
	assert.Equal(t, c.ID, loaded.Lessons[3].ID)
}

func TestAttachAudio(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLessonRepository(db)
	ctx := context.Background()
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")
	lesson := testutil.CreateLesson(t, db, course.ID, 1, "Alphabet")

	require.NoError(t, repo.AttachAudio(ctx, lesson.ID, "lessons/audio/a.mp3", 12.5))

	got, err := repo.FindByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "lessons/audio/a.mp3", got.Audio)
	assert.InDelta(t, 12.5, got.AudioDuration, 0.001)
}

func TestSearchStartsWithRanksFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	fun := testutil.CreateCourse(t, db, "Fun with Arabic", "")
	basics := testutil.CreateCourse(t, db, "Arabic Basics", "")
	testutil.CreateCourse(t, db, "Spanish", "nothing here")

	courses, err := repo.SearchCourses(ctx, "ar", 5)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, basics.ID, courses[0].ID)
	assert.Equal(t, fun.ID, courses[1].ID)

	lessonA := testutil.CreateLesson(t, db, fun.ID, 1, "Greetings in Arabic")
	lessonB := testutil.CreateLesson(t, db, basics.ID, 1, "Arabic letters")

	lessons, err := repo.SearchLessons(ctx, "ARABIC", 5)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, lessonB.ID, lessons[0].ID)
	assert.Equal(t, lessonA.ID, lessons[1].ID)
	require.NotNil(t, lessons[0].Course)
	assert.Equal(t, "Arabic Basics", lessons[0].Course.Name)
}

func TestSearchContainsTieBreaksByID(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"basics created first", []string{"Arabic Basics", "Fun with Arabic"}},
		{"fun created first", []string{"Fun with Arabic", "Arabic Basics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.OpenDB(t)
			for _, name := range tt.order {
				testutil.CreateCourse(t, db, name, "")
			}

			// "ab" 不是任何一个名称的前缀，两者同属包含匹配，按 id 排序
			courses, err := NewSearchRepository(db).SearchCourses(context.Background(), "ab", 5)
			require.NoError(t, err)
			require.Len(t, courses, 2)
			assert.Equal(t, tt.order[0], courses[0].Name)
			assert.Equal(t, tt.order[1], courses[1].Name)
		})
	}
}

func TestSearchNonASCIINames(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()
	ecole := testutil.CreateCourse(t, db, "École française", "")
	uber := testutil.CreateCourse(t, db, "Über Deutsch", "")

	tests := []struct {
		query string
		want  uint
	}{
		{"École", ecole.ID},
		{"fran", ecole.ID},
		{"FRAN", ecole.ID},
		{"Über", uber.ID},
		{"deutsch", uber.ID},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			courses, err := repo.SearchCourses(ctx, tt.query, 5)
			require.NoError(t, err)
			require.Len(t, courses, 1)
			assert.Equal(t, tt.want, courses[0].ID)
		})
	}
}

func TestSearchMatchesDescriptionAndRespectsLimit(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		testutil.CreateCourse(t, db, "Course", "learn grammar")
	}
	courses, err := repo.SearchCourses(ctx, "grammar", 5)
	require.NoError(t, err)
	assert.Len(t, courses, 5)
}

func TestSearchEscapesWildcards(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	testutil.CreateCourse(t, db, "Arabic Basics", "")
	pct := testutil.CreateCourse(t, db, "100% Arabic", "")

	courses, err := repo.SearchCourses(ctx, "0%", 5)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, pct.ID, courses[0].ID)

	courses, err = repo.SearchCourses(ctx, "__", 5)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
