// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreCategoryTable represents the 'core.category' table
type CoreCategoryTable struct {
	Table string
	ID    string
	Name  string
	SubID string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreCategoryTable{
	Table: "core.category",
	ID:    "id",
	Name:  "name",
	SubID: "subid",
}

// Columns returns all column names in declaration order.
func (t CoreCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.SubID}
}
