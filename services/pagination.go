package services

import (
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/feedline/feedline/models"
)

// DefaultPageSize is used when the configuration does not override the feed
// page size. Every timeline view paginates with the same constant.
const DefaultPageSize = 10

// Page is one slice of a timeline plus the metadata needed to continue
// paginating. Requesting a page past the end yields an empty Items slice,
// never an error.
type Page struct {
	Items      []models.Post `json:"items"`
	Number     int           `json:"page"`
	Size       int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func (p Page) HasNext() bool { return p.Number < p.TotalPages }

func (p Page) HasPrev() bool { return p.Number > 1 && p.TotalPages > 0 }

// ParsePage interprets a raw page parameter. Absent, non-numeric, or
// non-positive input falls back to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// paginatePosts counts and slices an ordered post query into one page.
func paginatePosts(q *gorm.DB, size, page int) (Page, error) {
	if size < 1 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	pg := Page{Items: []models.Post{}, Number: page, Size: size}
	if err := q.Model(&models.Post{}).Count(&pg.Total).Error; err != nil {
		return pg, err
	}
	pg.TotalPages = int((pg.Total + int64(size) - 1) / int64(size))
	if err := q.Offset((page - 1) * size).Limit(size).Find(&pg.Items).Error; err != nil {
		return pg, err
	}
	return pg, nil
}
