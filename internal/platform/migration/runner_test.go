// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestConvertToPgx5DSN rewrites libpq URL schemes to the pgx5 driver scheme.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/manga":   "pgx5://u:p@db:5432/manga",
		"postgresql://u:p@db:5432/manga": "pgx5://u:p@db:5432/manga",
		"pgx5://u:p@db:5432/manga":       "pgx5://u:p@db:5432/manga",
		"host=db user=u dbname=manga":    "host=db user=u dbname=manga",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, convertToPgx5DSN(input), input)
	}
}

/*
TestInitSchema_MangaDeleteCascades walks every foreign key that points at a
manga or a chapter. A hard manga delete only succeeds when each of them
cascades.
*/
func TestInitSchema_MangaDeleteCascades(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)

	var checked int
	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.Contains(line, "REFERENCES core.manga (id)") && !strings.Contains(line, "REFERENCES core.chapter (id)") {
			continue
		}
		checked++
		assert.Contains(t, line, "ON DELETE CASCADE", strings.TrimSpace(line))
	}
	assert.GreaterOrEqual(t, checked, 3)
}
