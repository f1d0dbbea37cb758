// Package config loads and validates the workday configuration file.
//
// The file is YAML by default; a path ending in .toml is read as TOML. Every
// setting has a default, so a missing file or a partial one is valid:
//
//	timezone: Europe/Berlin
//	gaps:
//	  work_start_hour: 9
//	  work_end_hour: 18
//	  min_gap_hours: 1.5
//	store:
//	  type: sqlite
//	  sqlite_path: /var/lib/workday/state.db
package config
