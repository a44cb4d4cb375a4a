package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_correspondents",
		SQL: `CREATE TABLE IF NOT EXISTS correspondents (
  id   BIGSERIAL    PRIMARY KEY,
  name VARCHAR(128) NOT NULL UNIQUE,
  slug VARCHAR(128) NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  id   BIGSERIAL    PRIMARY KEY,
  name VARCHAR(128) NOT NULL UNIQUE,
  slug VARCHAR(128) NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id               BIGSERIAL    PRIMARY KEY,
  correspondent_id BIGINT       NULL REFERENCES correspondents (id) ON DELETE SET NULL,
  title            VARCHAR(128) NOT NULL DEFAULT '',
  content          TEXT         NOT NULL DEFAULT '',
  file_type        VARCHAR(4)   NOT NULL CHECK (file_type IN ('pdf', 'png', 'jpg', 'gif', 'tiff')),
  checksum         VARCHAR(32)  NOT NULL UNIQUE,
  created          TIMESTAMPTZ  NOT NULL DEFAULT now(),
  modified         TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_correspondent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_correspondent_id ON documents (correspondent_id);`,
	},
	{
		Name: "create_index_documents_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created ON documents (created);`,
	},
	{
		Name: "create_table_document_tags",
		SQL: `CREATE TABLE IF NOT EXISTS document_tags (
  document_id BIGINT NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  tag_id      BIGINT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
  PRIMARY KEY (document_id, tag_id)
);`,
	},
	{
		Name: "create_index_document_tags_tag_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_tags_tag_id ON document_tags (tag_id);`,
	},
	{
		Name: "create_table_logs",
		SQL: `CREATE TABLE IF NOT EXISTS logs (
  id        BIGSERIAL   PRIMARY KEY,
  grp       UUID        NOT NULL,
  message   TEXT        NOT NULL,
  level     SMALLINT    NOT NULL DEFAULT 20,
  component SMALLINT    NOT NULL,
  created   TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_logs_grp",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_logs_grp ON logs (grp);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL    PRIMARY KEY,
  username      VARCHAR(150) NOT NULL UNIQUE,
  password_hash TEXT         NOT NULL,
  is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
  created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
}

// sentinelQuery checks for the table created by the last step, so a schema
// interrupted half way is migrated again. Every step is idempotent.
const sentinelQuery = "SELECT to_regclass('public.users') IS NOT NULL"

// EnsureMigrated creates the schema unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
