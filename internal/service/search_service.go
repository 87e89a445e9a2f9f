package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	searchKeyPrefix    = "search:"
	minSearchRunes     = 2
	defaultSearchLimit = 5
)

// ErrCacheMiss 缓存中没有该键
var ErrCacheMiss = errors.New("cache miss")

type SearchCache interface {
	Get(ctx context.Context, key string) (*model.SearchResult, error)
	Set(ctx context.Context, key string, result *model.SearchResult, ttl time.Duration) error
}

// RedisSearchCache 搜索结果以 JSON 存入 Redis
type RedisSearchCache struct {
	Client *redis.Client
}

func NewRedisSearchCache(client *redis.Client) *RedisSearchCache {
	return &RedisSearchCache{Client: client}
}

func (c *RedisSearchCache) Get(ctx context.Context, key string) (*model.SearchResult, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var result model.SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode cached search: %w", err)
	}
	return &result, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, key string, result *model.SearchResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, raw, ttl).Err()
}

type SearchService struct {
	Repo  *repository.SearchRepository
	Cache SearchCache
	Limit int

	ttl atomic.Int64
}

// NewSearchService cache 可以为 nil，此时每次都查库
func NewSearchService(repo *repository.SearchRepository, cache SearchCache, ttl time.Duration, limit int) *SearchService {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	s := &SearchService{Repo: repo, Cache: cache, Limit: limit}
	s.SetTTL(ttl)
	return s
}

// SetTTL 配置热更新时调用
func (s *SearchService) SetTTL(ttl time.Duration) {
	s.ttl.Store(int64(ttl))
}

func (s *SearchService) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// CacheKey 同一个去除首尾空白后的查询共享缓存
func CacheKey(query string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(query)))
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *SearchService) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	term := strings.TrimSpace(query)
	if utf8.RuneCountInString(term) < minSearchRunes {
		return model.EmptySearchResult(), nil
	}

	key := CacheKey(term)
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, key)
		switch {
		case err == nil:
			monitoring.SearchCache.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, ErrCacheMiss):
			monitoring.SearchCache.WithLabelValues("miss").Inc()
		default:
			monitoring.SearchCache.WithLabelValues("error").Inc()
			logger.Log.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	result, err := s.query(ctx, term)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, result, s.TTL()); err != nil {
			logger.Log.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

func (s *SearchService) query(ctx context.Context, term string) (*model.SearchResult, error) {
	courses, err := s.Repo.SearchCourses(ctx, term, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	lessons, err := s.Repo.SearchLessons(ctx, term, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}

	result := model.EmptySearchResult()
	for _, c := range courses {
		result.Courses = append(result.Courses, model.CourseHit{ID: c.ID, Name: c.Name})
	}
	for _, l := range lessons {
		hit := model.LessonHit{ID: l.ID, Title: l.Title, CourseID: l.CourseID}
		if l.Course != nil {
			hit.Course = model.CourseRef{ID: l.Course.ID, Name: l.Course.Name}
		}
		result.Lessons = append(result.Lessons, hit)
	}
	return result, nil
}
