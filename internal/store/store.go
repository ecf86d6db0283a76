// Package store provides sqlite-backed persistence for strategies and
// content items. Callers depend on the narrow interfaces they need, not on
// the concrete type, so the core never assumes a storage medium.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/marketing-autopilot/internal/models"
)

// Store provides access to the autopilot database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS strategies (
		id             TEXT PRIMARY KEY,
		created_at     DATETIME NOT NULL,
		brand_profile  TEXT NOT NULL DEFAULT '{}',
		objectives     TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS phases (
		id           TEXT PRIMARY KEY,
		strategy_id  TEXT NOT NULL REFERENCES strategies(id),
		ord          INTEGER NOT NULL DEFAULT 0,
		title        TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		phase_id        TEXT NOT NULL REFERENCES phases(id),
		ord             INTEGER NOT NULL DEFAULT 0,
		type            TEXT NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'PLANNED',
		scheduled_date  TEXT DEFAULT '',
		content_id      TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS content_items (
		id          TEXT PRIMARY KEY,
		task_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		feedback    TEXT DEFAULT '',
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_content_status ON content_items(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_phase ON tasks(phase_id, ord);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// --- Strategy ---

// SaveStrategy replaces the stored plan wholesale: the previous strategy and
// its phases and tasks are dropped and the given one written in their place.
// Content items survive — they are owned by the content store, not the plan.
func (s *Store) SaveStrategy(strategy *models.Strategy) error {
	profile, err := json.Marshal(strategy.BrandProfile)
	if err != nil {
		return fmt.Errorf("marshal brand profile: %w", err)
	}
	objectives, err := json.Marshal(strategy.Objectives)
	if err != nil {
		return fmt.Errorf("marshal objectives: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save strategy: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM tasks`, `DELETE FROM phases`, `DELETE FROM strategies`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("save strategy: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO strategies (id, created_at, brand_profile, objectives) VALUES (?, ?, ?, ?)`,
		strategy.ID, strategy.CreatedAt.UTC(), string(profile), string(objectives),
	); err != nil {
		return fmt.Errorf("insert strategy: %w", err)
	}

	for pi, phase := range strategy.Phases {
		if _, err := tx.Exec(
			`INSERT INTO phases (id, strategy_id, ord, title) VALUES (?, ?, ?, ?)`,
			phase.ID, strategy.ID, pi, phase.Title,
		); err != nil {
			return fmt.Errorf("insert phase %s: %w", phase.ID, err)
		}
		for ti, task := range phase.Tasks {
			if _, err := tx.Exec(
				`INSERT INTO tasks (id, phase_id, ord, type, title, description, status, scheduled_date, content_id)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				task.ID, phase.ID, ti, string(task.Type), task.Title, task.Description,
				string(task.Status), task.ScheduledDate, task.ContentID,
			); err != nil {
				return fmt.Errorf("insert task %s: %w", task.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save strategy: %w", err)
	}
	return nil
}

// GetStrategy returns the stored strategy with its phases and tasks in
// order, or nil when no plan has been generated yet.
func (s *Store) GetStrategy() (*models.Strategy, error) {
	row := s.db.QueryRow(`SELECT id, created_at, brand_profile, objectives FROM strategies LIMIT 1`)

	var strategy models.Strategy
	var profile, objectives string
	err := row.Scan(&strategy.ID, &strategy.CreatedAt, &profile, &objectives)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan strategy: %w", err)
	}
	if err := json.Unmarshal([]byte(profile), &strategy.BrandProfile); err != nil {
		return nil, fmt.Errorf("decode brand profile: %w", err)
	}
	if err := json.Unmarshal([]byte(objectives), &strategy.Objectives); err != nil {
		return nil, fmt.Errorf("decode objectives: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, title FROM phases WHERE strategy_id = ? ORDER BY ord`, strategy.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query phases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phase models.Phase
		if err := rows.Scan(&phase.ID, &phase.Title); err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		strategy.Phases = append(strategy.Phases, phase)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for pi := range strategy.Phases {
		tasks, err := s.tasksForPhase(strategy.Phases[pi].ID)
		if err != nil {
			return nil, err
		}
		strategy.Phases[pi].Tasks = tasks
	}
	return &strategy, nil
}

func (s *Store) tasksForPhase(phaseID string) ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, type, title, description, status, scheduled_date, content_id
		 FROM tasks WHERE phase_id = ? ORDER BY ord`, phaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var typ, status string
		if err := rows.Scan(&t.ID, &typ, &t.Title, &t.Description, &status, &t.ScheduledDate, &t.ContentID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Type = models.ContentType(typ)
		t.Status = models.ContentStatus(status)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns a single task by id, or nil when it does not exist.
func (s *Store) GetTask(id string) (*models.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, type, title, description, status, scheduled_date, content_id FROM tasks WHERE id = ?`, id,
	)
	var t models.Task
	var typ, status string
	err := row.Scan(&t.ID, &typ, &t.Title, &t.Description, &status, &t.ScheduledDate, &t.ContentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Type = models.ContentType(typ)
	t.Status = models.ContentStatus(status)
	return &t, nil
}

// UpdateTask sets a task's status and linked content id. A non-empty
// contentID replaces the previous link (last write wins).
func (s *Store) UpdateTask(id string, status models.ContentStatus, contentID string) error {
	var err error
	if contentID != "" {
		_, err = s.db.Exec(
			`UPDATE tasks SET status = ?, content_id = ? WHERE id = ?`,
			string(status), contentID, id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE tasks SET status = ? WHERE id = ?`, string(status), id,
		)
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// --- Content ---

const contentColumns = `id, task_id, type, title, content, status, feedback, created_at, updated_at`

// SaveContent upserts a content item.
func (s *Store) SaveContent(item *models.ContentItem) error {
	_, err := s.db.Exec(
		`INSERT INTO content_items (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content = excluded.content, status = excluded.status,
		   feedback = excluded.feedback, updated_at = excluded.updated_at`,
		item.ID, item.TaskID, string(item.Type), item.Title, item.Content,
		string(item.Status), item.Feedback, item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

// GetContent returns a content item by id, or nil when it does not exist.
func (s *Store) GetContent(id string) (*models.ContentItem, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM content_items WHERE id = ?`, id)
	item, err := scanContent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	return item, nil
}

// ListContent returns all content items, newest first.
func (s *Store) ListContent() ([]models.ContentItem, error) {
	return s.queryContent(`SELECT ` + contentColumns + ` FROM content_items ORDER BY created_at DESC`)
}

// ListContentByStatus returns all content items currently in the given status.
func (s *Store) ListContentByStatus(status models.ContentStatus) ([]models.ContentItem, error) {
	return s.queryContent(
		`SELECT `+contentColumns+` FROM content_items WHERE status = ? ORDER BY created_at DESC`,
		string(status),
	)
}

func (s *Store) queryContent(query string, args ...any) ([]models.ContentItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateContentStatus changes a content item's status and, when the owning
// task still links to this item, propagates the status to the task in the
// same logical operation. A missing owning task is logged and tolerated:
// content availability wins over strategy bookkeeping.
func (s *Store) UpdateContentStatus(id string, status models.ContentStatus) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE content_items SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id,
	)
	if err != nil {
		return fmt.Errorf("update content status: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE tasks SET status = ? WHERE content_id = ?`, string(status), id,
	)
	if err != nil {
		log.Printf("[store] content %s updated but task propagation failed: %v", id, err)
		return nil
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("[store] content %s has no owning task; status updated on content only", id)
	}
	return nil
}

// SetContentFeedback records rejection feedback alongside a status change.
func (s *Store) SetContentFeedback(id, feedback string, status models.ContentStatus) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE content_items SET feedback = ?, status = ?, updated_at = ? WHERE id = ?`,
		feedback, string(status), now, id,
	)
	if err != nil {
		return fmt.Errorf("set content feedback: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE content_id = ?`, string(status), id); err != nil {
		log.Printf("[store] content %s feedback saved but task propagation failed: %v", id, err)
	}
	return nil
}

// UpdateContentBody replaces the opaque content payload of an item.
func (s *Store) UpdateContentBody(id, content string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE content_items SET content = ?, updated_at = ? WHERE id = ?`,
		content, now, id,
	)
	if err != nil {
		return fmt.Errorf("update content body: %w", err)
	}
	return nil
}

func scanContent(scan func(dest ...any) error) (*models.ContentItem, error) {
	var item models.ContentItem
	var typ, status string
	err := scan(
		&item.ID, &item.TaskID, &typ, &item.Title, &item.Content,
		&status, &item.Feedback, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Type = models.ContentType(typ)
	item.Status = models.ContentStatus(status)
	return &item, nil
}
