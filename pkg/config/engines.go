package config

import "sort"

// Database types an engine belongs to.
const (
	DatabaseTypeMySQL      = "MYSQL"
	DatabaseTypePostgreSQL = "POSTGRESQL"
	DatabaseTypeOracle     = "ORACLE"
	DatabaseTypeSQLServer  = "SQLSERVER"
)

var engineDatabaseTypes = map[string]string{
	"mysql":             DatabaseTypeMySQL,
	"mariadb":           DatabaseTypeMySQL,
	"aurora-mysql":      DatabaseTypeMySQL,
	"postgres":          DatabaseTypePostgreSQL,
	"aurora-postgresql": DatabaseTypePostgreSQL,
	"oracle-se2":        DatabaseTypeOracle,
	"oracle-ee":         DatabaseTypeOracle,
	"sqlserver-ex":      DatabaseTypeSQLServer,
	"sqlserver-web":     DatabaseTypeSQLServer,
	"sqlserver-se":      DatabaseTypeSQLServer,
	"sqlserver-ee":      DatabaseTypeSQLServer,
}

// DatabaseTypeOf returns the database type of engine, or "" for an unknown engine.
func DatabaseTypeOf(engine string) string {
	return engineDatabaseTypes[engine]
}

// EnginesByDatabaseType groups the supported engines by database type.
func EnginesByDatabaseType() map[string][]string {
	grouped := map[string][]string{}
	for _, engine := range Engines {
		if dbType := DatabaseTypeOf(engine); dbType != "" {
			grouped[dbType] = append(grouped[dbType], engine)
		}
	}
	for _, engines := range grouped {
		sort.Strings(engines)
	}
	return grouped
}
