// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

// Repository is the persistence contract for authors.
type Repository interface {
	// List returns authors ordered by name. A limit of 0 means no limit.
	List(context context.Context, limit int) ([]*Author, error)
	FindByID(context context.Context, id int) (*Author, error)

	// Ensure returns the author with the given name, creating it when absent.
	Ensure(context context.Context, name string) (*Author, error)
	Delete(context context.Context, id int) error
}
