// Package db publica el DDL de Postgres para aplicarlo al arrancar.
package db

import _ "embed"

// Schema crea tablas, índices y determine_animal_health_status(uuid). Idempotente.
//
//go:embed schema.sql
var Schema string
