package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{ sets int }

func (c *brokenCache) Get(context.Context, string) (*model.SearchResult, error) {
	return nil, errors.New("connection refused")
}

func (c *brokenCache) Set(context.Context, string, *model.SearchResult, time.Duration) error {
	c.sets++
	return errors.New("connection refused")
}

type countingCache struct{ gets, sets int }

func (c *countingCache) Get(context.Context, string) (*model.SearchResult, error) {
	c.gets++
	return nil, ErrCacheMiss
}

func (c *countingCache) Set(context.Context, string, *model.SearchResult, time.Duration) error {
	c.sets++
	return nil
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateCourse(t, db, "A course", "")
	// 关闭连接后任何查库都会返回错误
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cache := &countingCache{}
	svc := NewSearchService(repository.NewSearchRepository(db), cache, time.Minute, 0)

	for _, q := range []string{"", " ", "a", "  a  ", "é"} {
		result, err := svc.Search(context.Background(), q)
		require.NoError(t, err, "%q", q)
		assert.Empty(t, result.Courses)
		assert.Empty(t, result.Lessons)
		assert.NotNil(t, result.Courses)
		assert.NotNil(t, result.Lessons)
	}
	assert.Zero(t, cache.gets)
	assert.Zero(t, cache.sets)

	_, err = svc.Search(context.Background(), "ab")
	assert.Error(t, err)
	assert.Equal(t, 1, cache.gets)
}

func TestSearchCachesTrimmedQuery(t *testing.T) {
	db := testutil.OpenDB(t)
	course := testutil.CreateCourse(t, db, "Arabic Basics", "")
	testutil.CreateLesson(t, db, course.ID, 1, "Arabic letters")
	rdb, mr := testutil.OpenRedis(t)
	svc := NewSearchService(repository.NewSearchRepository(db), NewRedisSearchCache(rdb), time.Minute, 5)
	ctx := context.Background()

	first, err := svc.Search(ctx, " ar ")
	require.NoError(t, err)
	require.Len(t, first.Courses, 1)
	require.Len(t, first.Lessons, 1)
	assert.Equal(t, "Arabic Basics", first.Lessons[0].Course.Name)
	assert.Equal(t, course.ID, first.Lessons[0].CourseID)

	assert.Equal(t, CacheKey("ar"), CacheKey(" ar "))
	assert.True(t, mr.Exists(CacheKey("ar")))
	assert.Equal(t, time.Minute, mr.TTL(CacheKey("ar")))

	// 新数据在缓存过期前不可见
	testutil.CreateCourse(t, db, "Arabic Advanced", "")
	cached, err := svc.Search(ctx, "ar")
	require.NoError(t, err)
	assert.Len(t, cached.Courses, 1)

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.Search(ctx, "ar")
	require.NoError(t, err)
	assert.Len(t, fresh.Courses, 2)
}

func TestSearchTTLCanBeChanged(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateCourse(t, db, "Arabic Basics", "")
	rdb, mr := testutil.OpenRedis(t)
	svc := NewSearchService(repository.NewSearchRepository(db), NewRedisSearchCache(rdb), time.Minute, 5)

	svc.SetTTL(30 * time.Second)
	assert.Equal(t, 30*time.Second, svc.TTL())

	_, err := svc.Search(context.Background(), "arabic")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL(CacheKey("arabic")))
}

func TestSearchFallsBackWhenCacheFails(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateCourse(t, db, "Arabic Basics", "")
	cache := &brokenCache{}
	svc := NewSearchService(repository.NewSearchRepository(db), cache, time.Minute, 5)

	result, err := svc.Search(context.Background(), "arabic")
	require.NoError(t, err)
	assert.Len(t, result.Courses, 1)
	assert.Equal(t, 1, cache.sets)
}

func TestSearchWithoutCache(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.CreateCourse(t, db, "Arabic Basics", "")
	svc := NewSearchService(repository.NewSearchRepository(db), nil, time.Minute, 5)

	result, err := svc.Search(context.Background(), "basics")
	require.NoError(t, err)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "Arabic Basics", result.Courses[0].Name)
	assert.Empty(t, result.Lessons)
}
