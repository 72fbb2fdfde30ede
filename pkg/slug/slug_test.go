// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaonline/pkg/slug"
)

/*
TestFrom checks accent folding and separator cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Solo Leveling", "solo-leveling"},
		{"Đảo Hải Tặc", "dao-hai-tac"},
		{"  Thám tử lừng danh Conan!! ", "tham-tu-lung-danh-conan"},
		{"One--Piece", "one-piece"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
