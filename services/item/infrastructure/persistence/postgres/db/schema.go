package db

import _ "embed"

// Schema is the DDL sqlc generates against. Integration tests apply it to a
// scratch database; production databases are provisioned out of band.
//
//go:embed schema.sql
var Schema string
