package store

// migration is a single versioned schema change for the settings
// database.
type migration struct {
	version int
	sql     string
}

// migrations are applied in order; each runs at most once per database.
var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS settings (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);

			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
