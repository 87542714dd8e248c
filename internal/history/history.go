// Package history archives course runs into an optional MySQL database.
// The archive is entirely passive: when no DSN is configured every method
// is a no-op, and a course run never fails because the archive is down.
package history

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// Archive records course runs in MySQL. A nil *Archive is valid and inert.
type Archive struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// Open connects to the archive database. An empty DSN returns a nil archive,
// which disables the feature.
func Open(dsn string, log *zap.SugaredLogger) (*Archive, error) {
	if dsn == "" {
		return nil, nil
	}
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect history database: %w", err)
	}
	return &Archive{db: db, log: log}, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS course_runs (
		run_id           VARCHAR(36) PRIMARY KEY,
		course_code      VARCHAR(32) NOT NULL,
		test_date        DATETIME NOT NULL,
		total_exercises  INT NOT NULL,
		exercises_tested INT NOT NULL,
		exercises_passed INT NOT NULL,
		exercises_failed INT NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		full_coverage    TINYINT(1) NOT NULL,
		INDEX idx_course_date (course_code, test_date)
	)`,
	`CREATE TABLE IF NOT EXISTS exercise_runs (
		id               BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id           VARCHAR(36) NOT NULL,
		exercise_id      VARCHAR(128) NOT NULL,
		status           VARCHAR(16) NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		bug_count        INT NOT NULL,
		worst_severity   VARCHAR(16) NOT NULL,
		cached           TINYINT(1) NOT NULL,
		INDEX idx_run (run_id)
	)`,
}

// EnsureSchema creates the archive tables when they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if a == nil {
		return nil
	}
	for _, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// RecordRun inserts one course run and its per-exercise rows.
func (a *Archive) RecordRun(ctx context.Context, results *domain.CourseTestResults) error {
	if a == nil {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO course_runs (
			run_id, course_code, test_date, total_exercises, exercises_tested,
			exercises_passed, exercises_failed, duration_seconds, full_coverage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		results.RunID,
		results.CourseCode,
		results.TestDate,
		results.TotalExercises,
		results.ExercisesTested,
		results.ExercisesPassed,
		results.ExercisesFailed,
		results.DurationSeconds,
		results.AllExercisesTested,
	)
	if err != nil {
		return fmt.Errorf("insert course run: %w", err)
	}

	for _, er := range results.Exercises {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO exercise_runs (
				run_id, exercise_id, status, duration_seconds, bug_count, worst_severity, cached
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			results.RunID,
			er.ExerciseID,
			string(er.Status),
			er.DurationSeconds,
			len(er.Bugs),
			domain.MostSevere(er.Bugs),
			er.Cached,
		)
		if err != nil {
			return fmt.Errorf("insert exercise run %s: %w", er.ExerciseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	a.log.Debugw("run archived", "run_id", results.RunID, "exercises", len(results.Exercises))
	return nil
}

// Prune deletes runs older than the given number of days.
func (a *Archive) Prune(ctx context.Context, days int) (int64, error) {
	if a == nil {
		return 0, nil
	}

	_, err := a.db.ExecContext(ctx, `
		DELETE er FROM exercise_runs er
		JOIN course_runs cr ON cr.run_id = er.run_id
		WHERE cr.test_date < DATE_SUB(NOW(), INTERVAL ? DAY)`, days)
	if err != nil {
		return 0, fmt.Errorf("prune exercise runs: %w", err)
	}

	res, err := a.db.ExecContext(ctx,
		`DELETE FROM course_runs WHERE test_date < DATE_SUB(NOW(), INTERVAL ? DAY)`, days)
	if err != nil {
		return 0, fmt.Errorf("prune course runs: %w", err)
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}
