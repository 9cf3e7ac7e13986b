// Package config loads standoc settings.
//
// Settings come from, in increasing priority: built-in defaults, the file
// .standoc/config.yml under the project root, and STANDOC_* environment
// variables. STANDOC_DB_PATH is accepted as a shorthand for
// STANDOC_STORAGE_DB_PATH.
//
//	paths:
//	  include: ["**/*.stan", "**/*.stanfunctions"]
//	  ignore: [".git/**"]
//	storage:
//	  db_path: ~/.standoc/standoc.db
//	indexer:
//	  workers: 4
//	resolver:
//	  cache_size: 256
//	output:
//	  format: json
package config
