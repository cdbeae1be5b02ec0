// Package query turns list-endpoint parameters (search, field filters, ordering and page
// number pagination) into gorm clauses.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvalidOrdering = errors.New("invalid ordering")
	ErrInvalidPage     = errors.New("invalid page")
	ErrInvalidDate     = errors.New("invalid date")
)

const DayLayout = "2006-01-02"

type Op string

const (
	OpEq        Op = "eq"
	OpIContains Op = "icontains"
	OpGTE       Op = "gte"
	OpLT        Op = "lt"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

type OrderField struct {
	Column string
	Desc   bool
}

// Spec describes what a resource allows: the columns searched by ?search= and the
// ordering names mapped to columns.
type Spec struct {
	SearchColumns []string
	Orderable     map[string]string
	DefaultOrder  []OrderField
}

type Params struct {
	Search   string
	Filters  []Filter
	Ordering []OrderField
	Page     int
	PageSize int
}

// Offset is the row offset of Page. It saturates at math.MaxInt instead of wrapping.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// pageCount is the number of pages needed for total rows; zero rows still have one page.
func pageCount(total int64, size int) int64 {
	if total <= 0 {
		return 1
	}
	return (total + int64(size) - 1) / int64(size)
}

// Where applies search and filters but not ordering or paging, so it can back a COUNT.
func Where(db *gorm.DB, p Params, spec Spec) *gorm.DB {
	for _, f := range p.Filters {
		switch f.Op {
		case OpIContains:
			db = db.Where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", f.Column), containsPattern(fmt.Sprint(f.Value)))
		case OpGTE:
			db = db.Where(fmt.Sprintf("%s >= ?", f.Column), f.Value)
		case OpLT:
			db = db.Where(fmt.Sprintf("%s < ?", f.Column), f.Value)
		default:
			db = db.Where(fmt.Sprintf("%s = ?", f.Column), f.Value)
		}
	}
	if term := strings.TrimSpace(p.Search); term != "" && len(spec.SearchColumns) > 0 {
		pattern := containsPattern(term)
		clauses := make([]string, 0, len(spec.SearchColumns))
		args := make([]any, 0, len(spec.SearchColumns))
		for _, col := range spec.SearchColumns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", col))
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return db
}

// Order applies the requested ordering, falling back to Spec.DefaultOrder.
func Order(db *gorm.DB, p Params, spec Spec) *gorm.DB {
	fields := p.Ordering
	if len(fields) == 0 {
		fields = spec.DefaultOrder
	}
	for _, f := range fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		db = db.Order(f.Column + " " + dir)
	}
	return db
}

func Paginate(db *gorm.DB, p Params) *gorm.DB {
	if p.PageSize <= 0 {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.PageSize)
}

// ParseOrdering reads "title,-date_added" style input against Spec.Orderable.
func ParseOrdering(raw string, spec Spec) ([]OrderField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []OrderField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		col, ok := spec.Orderable[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidOrdering, name)
		}
		out = append(out, OrderField{Column: col, Desc: desc})
	}
	return out, nil
}

// ParsePage validates page and page_size. Size falls back to def and is capped at max.
func ParsePage(pageRaw, sizeRaw string, def, max int) (int, int, error) {
	page := 1
	if s := strings.TrimSpace(pageRaw); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPage, pageRaw)
		}
		page = n
	}
	size := def
	if s := strings.TrimSpace(sizeRaw); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: page_size %q", ErrInvalidPage, sizeRaw)
		}
		size = n
	}
	if max > 0 && size > max {
		size = max
	}
	return page, size, nil
}

// ParseDay parses YYYY-MM-DD (or RFC3339, truncated to its UTC day).
func ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DayLayout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// DayFilters builds the range filters for an exact day, an inclusive lower day bound and
// an inclusive upper day bound on column. Blank inputs are skipped.
func DayFilters(column, on, after, before string) ([]Filter, error) {
	var out []Filter
	if strings.TrimSpace(on) != "" {
		day, err := ParseDay(on)
		if err != nil {
			return nil, err
		}
		out = append(out,
			Filter{Column: column, Op: OpGTE, Value: day},
			Filter{Column: column, Op: OpLT, Value: day.AddDate(0, 0, 1)},
		)
	}
	if strings.TrimSpace(after) != "" {
		day, err := ParseDay(after)
		if err != nil {
			return nil, err
		}
		out = append(out, Filter{Column: column, Op: OpGTE, Value: day})
	}
	if strings.TrimSpace(before) != "" {
		day, err := ParseDay(before)
		if err != nil {
			return nil, err
		}
		out = append(out, Filter{Column: column, Op: OpLT, Value: day.AddDate(0, 0, 1)})
	}
	return out, nil
}

func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

func (p Page[T]) HasNext() bool {
	if p.PageSize <= 0 {
		return false
	}
	return int64(p.Page) < pageCount(p.Total, p.PageSize)
}

func (p Page[T]) HasPrevious() bool { return p.Page > 1 }

// CheckRange rejects pages past the end; the first page is always valid.
func CheckRange(p Params, total int64) error {
	if p.Page > 1 && p.PageSize > 0 && int64(p.Page) > pageCount(total, p.PageSize) {
		return fmt.Errorf("%w: page %d is past the end", ErrInvalidPage, p.Page)
	}
	return nil
}
