package service

import (
	"context"
	"course_hub_backend/internal/admin"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	defaultAdminPageSize = 15
	maxAdminPageSize     = 100
)

type AdminListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

// AdminService 通用后台增删改查，行为完全由 admin.Registry 中的资源描述决定
type AdminService struct {
	Repo     *repository.AdminRepository
	Registry *admin.Registry
}

func NewAdminService(repo *repository.AdminRepository, registry *admin.Registry) *AdminService {
	return &AdminService{Repo: repo, Registry: registry}
}

func (s *AdminService) Resources() []*admin.Resource {
	return s.Registry.All()
}

func (s *AdminService) List(ctx context.Context, name string, q AdminListQuery) (*util.PageResponse, error) {
	res, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultAdminPageSize
	}
	if q.Limit > maxAdminPageSize {
		q.Limit = maxAdminPageSize
	}

	items, total, err := s.Repo.List(ctx, res, q.Search, q.Sort, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	return &util.PageResponse{List: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *AdminService) Get(ctx context.Context, name string, id uint) (interface{}, error) {
	res, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, res, id)
}

func (s *AdminService) Create(ctx context.Context, name string, payload map[string]interface{}) (interface{}, error) {
	res, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	if res.DisableCreate {
		return nil, fmt.Errorf("%w: %s does not support create", util.ErrPermissionDenied, name)
	}

	values, err := res.Normalize(payload, false)
	if err != nil {
		return nil, err
	}
	if err := s.checkRelations(ctx, res, values); err != nil {
		return nil, err
	}

	record := res.New()
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, record); err != nil {
		return nil, duplicateAsValidation(res, err)
	}

	id, err := recordID(record)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, res, id)
}

func (s *AdminService) Update(ctx context.Context, name string, id uint, payload map[string]interface{}) (interface{}, error) {
	res, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}

	values, err := res.Normalize(payload, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkRelations(ctx, res, values); err != nil {
		return nil, err
	}

	record, err := s.find(ctx, res, id)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := s.Repo.Update(ctx, record, res.ColumnValues(values)); err != nil {
			return nil, duplicateAsValidation(res, err)
		}
	}
	return s.find(ctx, res, id)
}

func (s *AdminService) Delete(ctx context.Context, name string, id uint) error {
	res, err := s.Registry.Get(name)
	if err != nil {
		return err
	}
	rows, err := s.Repo.Delete(ctx, res, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", name, id, err)
	}
	if rows == 0 {
		return util.ErrResourceNotFound
	}
	return nil
}

func (s *AdminService) find(ctx context.Context, res *admin.Resource, id uint) (interface{}, error) {
	record, err := s.Repo.Find(ctx, res, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *AdminService) checkRelations(ctx context.Context, res *admin.Resource, values map[string]interface{}) error {
	errs := make(map[string]string)
	for _, f := range res.RelationFields() {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		id, _ := v.(uint)
		newModel, known := admin.RelationModels[f.Relation]
		if !known {
			return fmt.Errorf("%w: relation %s", util.ErrUnknownResource, f.Relation)
		}
		exists, err := s.Repo.Exists(ctx, newModel(), id)
		if err != nil {
			return err
		}
		if !exists {
			errs[f.Name] = fmt.Sprintf("The selected %s is invalid.", f.Label)
		}
	}
	if len(errs) > 0 {
		return &admin.ValidationError{Fields: errs}
	}
	return nil
}

// duplicateAsValidation 唯一索引冲突（如重复报名）按校验错误返回
func duplicateAsValidation(res *admin.Resource, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	field := "id"
	if rel := res.RelationFields(); len(rel) > 0 {
		field = rel[0].Name
	}
	return &admin.ValidationError{Fields: map[string]string{
		field: "A record with these values already exists.",
	}}
}

func recordID(record interface{}) (uint, error) {
	m, ok := record.(model.Identifiable)
	if !ok {
		return 0, fmt.Errorf("record %T has no id", record)
	}
	return m.GetID(), nil
}
