// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository is the persistence contract for categories.
type Repository interface {
	// List returns every category ordered by name.
	List(context context.Context) ([]*Category, error)
	Create(context context.Context, category *Category) error
	Delete(context context.Context, id int) error
}
