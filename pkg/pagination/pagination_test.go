// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaonline/pkg/pagination"
)

/*
TestFromRequest covers defaults and clamping of query parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, 6, 0},
		{"explicit", "?page=3&pageSize=10", 3, 10, 20},
		{"negative_page", "?page=-2", 1, 6, 0},
		{"garbage", "?page=abc&pageSize=xyz", 1, 6, 0},
		{"clamped", "?pageSize=1000", 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/Manga/search"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta verifies page counts and navigation flags.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 6, 13)

	assert.Equal(t, 13, meta.TotalCount)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPreviousPage)

	last := pagination.NewMeta(3, 6, 13)
	assert.False(t, last.HasNextPage)

	empty := pagination.NewMeta(1, 6, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPreviousPage)
}

/*
TestLastPage never reports fewer than one page.
*/
func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, pagination.LastPage(6, 0))
	assert.Equal(t, 1, pagination.LastPage(6, 6))
	assert.Equal(t, 2, pagination.LastPage(6, 7))
	assert.Equal(t, 5, pagination.LastPage(6, 30))
}
