// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and checks the identifiers used for manga, chapters,
users and stored files.

New ids are Version 7, so rows inserted together sit together in the
PostgreSQL B-tree. Ids written by older clients may be any version, and they
arrive in either case, so [Valid] only checks the canonical 36-character form.
*/
package uuid

import "github.com/google/uuid"

// canonicalLength is the length of the 8-4-4-4-12 hex form.
const canonicalLength = 36

// New generates a new UUIDv7 string.
//
// It panics only when the OS entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a UUID in canonical form, in any letter case.
// The braced and urn: forms that [uuid.Parse] also accepts are rejected.
func Valid(s string) bool {
	if len(s) != canonicalLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
