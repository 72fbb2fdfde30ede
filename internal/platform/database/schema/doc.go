// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column used by the PostgreSQL repositories.

Queries are assembled with fmt.Sprintf over these definitions so a column rename
is a one-line change here and in the matching migration.
*/
package schema
