// Package admin 以配置的形式描述后台资源：表单字段、列表列、搜索与排序。
// 通用的增删改查由 service.AdminService 根据这些描述完成，前端只需按 schema 渲染。
package admin

import (
	"course_hub_backend/internal/util"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/clause"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindEmail    FieldKind = "email"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindFile     FieldKind = "file"
	KindBool     FieldKind = "bool"
)

// Field 表单字段。Name 为请求/响应中的 JSON 键，Column 为数据库列
type Field struct {
	Name      string    `json:"name"`
	Column    string    `json:"-"`
	Label     string    `json:"label"`
	Kind      FieldKind `json:"kind"`
	Required  bool      `json:"required"`
	MaxLength int       `json:"maxLength,omitempty"`
	Integer   bool      `json:"integer,omitempty"`
	Options   []string  `json:"options,omitempty"`
	Accept    []string  `json:"accept,omitempty"`
	MaxSizeKB int       `json:"maxSizeKB,omitempty"`
	Upload    string    `json:"upload,omitempty"`
	Relation  string    `json:"relation,omitempty"`
}

// Column 列表列。Name 为 JSON 键，DBColumn 为排序使用的数据库列（默认同 Name）
type Column struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	DBColumn string `json:"-"`
}

type Resource struct {
	Name          string   `json:"name"`
	Label         string   `json:"label"`
	Fields        []Field  `json:"fields"`
	Columns       []Column `json:"columns"`
	SearchColumns []string `json:"searchColumns"`
	DefaultSort   string   `json:"defaultSort"`
	DisableCreate bool     `json:"disableCreate"`
	Preload       []string `json:"-"`

	newModel func() interface{}
	newSlice func() interface{}
}

// define 绑定资源对应的模型类型
func define[T any](r Resource) *Resource {
	r.newModel = func() interface{} { return new(T) }
	r.newSlice = func() interface{} { return &[]T{} }
	return &r
}

// New 返回模型指针，如 *model.Course
func (r *Resource) New() interface{} { return r.newModel() }

// NewSlice 返回模型切片指针，如 *[]model.Course
func (r *Resource) NewSlice() interface{} { return r.newSlice() }

// ValidationError 字段 -> 提示
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

var validate = validator.New()

// Normalize 按字段定义校验并转换请求体，返回以 JSON 键为键的值。
// partial 为 true 时（更新）缺失字段跳过；未声明的键被忽略。
func (r *Resource) Normalize(payload map[string]interface{}, partial bool) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	errs := make(map[string]string)

	for _, f := range r.Fields {
		raw, present := payload[f.Name]
		if !present || raw == nil {
			if !partial && f.Required {
				errs[f.Name] = fmt.Sprintf("The %s field is required.", f.Label)
			} else if present && !f.Required {
				values[f.Name] = zeroValue(f)
			}
			continue
		}

		v, msg := f.convert(raw)
		if msg != "" {
			errs[f.Name] = msg
			continue
		}
		values[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return values, nil
}

func (f Field) convert(raw interface{}) (interface{}, string) {
	switch f.Kind {
	case KindNumber:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Sprintf("The %s field must be a number.", f.Label)
		}
		if f.Integer {
			if n != math.Trunc(n) {
				return nil, fmt.Sprintf("The %s field must be an integer.", f.Label)
			}
			return int64(n), ""
		}
		return n, ""
	case KindBool:
		switch b := raw.(type) {
		case bool:
			return b, ""
		case float64:
			if b == 0 || b == 1 {
				return b == 1, ""
			}
		}
		return nil, fmt.Sprintf("The %s field must be true or false.", f.Label)
	}

	if f.Relation != "" {
		n, ok := toFloat(raw)
		if !ok || n <= 0 || n != math.Trunc(n) {
			return nil, fmt.Sprintf("The selected %s is invalid.", f.Label)
		}
		return uint(n), ""
	}

	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Sprintf("The %s field must be a string.", f.Label)
	}
	if f.Required && strings.TrimSpace(s) == "" {
		return nil, fmt.Sprintf("The %s field is required.", f.Label)
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(s) > f.MaxLength {
		return nil, fmt.Sprintf("The %s field must not be greater than %d characters.", f.Label, f.MaxLength)
	}
	switch f.Kind {
	case KindEmail:
		if err := validate.Var(s, "email"); err != nil {
			return nil, fmt.Sprintf("The %s field must be a valid email address.", f.Label)
		}
	case KindSelect:
		if len(f.Options) > 0 && !contains(f.Options, s) {
			return nil, fmt.Sprintf("The selected %s is invalid.", f.Label)
		}
	}
	return s, ""
}

func zeroValue(f Field) interface{} {
	switch {
	case f.Relation != "":
		return uint(0)
	case f.Kind == KindBool:
		return false
	case f.Kind == KindNumber && f.Integer:
		return int64(0)
	case f.Kind == KindNumber:
		return float64(0)
	}
	return ""
}

func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		// 表单提交的数字可能是字符串
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ColumnValues 把 JSON 键转换为数据库列，用于 Updates
func (r *Resource) ColumnValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for _, f := range r.Fields {
		if v, ok := values[f.Name]; ok {
			out[f.Column] = v
		}
	}
	return out
}

// RelationFields 需要校验外键存在性的字段
func (r *Resource) RelationFields() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Relation != "" {
			out = append(out, f)
		}
	}
	return out
}

// SortClause 解析 "name" / "-name"，只允许可排序列，否则使用 DefaultSort
func (r *Resource) SortClause(sortParam string) clause.OrderByColumn {
	if col, ok := r.sortColumn(sortParam); ok {
		return col
	}
	col, _ := r.sortColumn(r.DefaultSort)
	return col
}

func (r *Resource) sortColumn(param string) (clause.OrderByColumn, bool) {
	desc := strings.HasPrefix(param, "-")
	name := strings.TrimPrefix(param, "-")
	if name == "id" {
		return clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}, true
	}
	for _, c := range r.Columns {
		if c.Sortable && c.Name == name {
			col := c.DBColumn
			if col == "" {
				col = c.Name
			}
			return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}, true
		}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}, false
}

// SearchCondition 在 SearchColumns 上做不区分大小写的包含匹配
func (r *Resource) SearchCondition(term string) (string, []interface{}) {
	term = strings.TrimSpace(term)
	if term == "" || len(r.SearchColumns) == 0 {
		return "", nil
	}
	like := util.LikeContains(term)
	parts := make([]string, 0, len(r.SearchColumns))
	args := make([]interface{}, 0, len(r.SearchColumns))
	for _, col := range r.SearchColumns {
		parts = append(parts, util.LowerLike(col))
		args = append(args, like)
	}
	return strings.Join(parts, " OR "), args
}

// Registry 资源注册表，保持注册顺序
type Registry struct {
	byName map[string]*Resource
	order  []*Resource
}

func NewRegistry(resources ...*Resource) *Registry {
	reg := &Registry{byName: make(map[string]*Resource, len(resources))}
	for _, r := range resources {
		reg.byName[r.Name] = r
		reg.order = append(reg.order, r)
	}
	return reg
}

func (g *Registry) Get(name string) (*Resource, error) {
	r, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownResource, name)
	}
	return r, nil
}

func (g *Registry) All() []*Resource {
	return g.order
}
