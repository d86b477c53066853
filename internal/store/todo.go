package store

import (
	"database/sql"
	"fmt"

	"github.com/rowanhart/tasklist/internal/model"
)

// TodoStore is the only path to todo rows. Every read and mutation of a
// specific row is keyed by (id, user_id) together, never by id alone; that
// compound predicate is the access-control mechanism isolating one user's
// todos from another's.
type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var completed int
	err := scanner.Scan(&t.ID, &t.UserID, &t.Title, &completed, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	return &t, nil
}

const todoCols = `id, user_id, title, completed, created_at`

// ListByUser returns the user's todos, newest first. A non-empty search term
// filters by case-insensitive substring match on the title.
func (s *TodoStore) ListByUser(userID int64, search string) ([]model.Todo, error) {
	query := `SELECT ` + todoCols + ` FROM todos WHERE user_id = ?`
	args := []any{userID}

	if search != "" {
		query += ` AND title LIKE '%' || ? || '%'`
		args = append(args, search)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (s *TodoStore) Create(userID int64, title string) (*model.Todo, error) {
	result, err := s.db.Exec(
		`INSERT INTO todos (user_id, title) VALUES (?, ?)`,
		userID, title,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByIDForUser(id, userID)
}

func (s *TodoStore) GetByIDForUser(id, userID int64) (*model.Todo, error) {
	row := s.db.QueryRow(`SELECT `+todoCols+` FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// SetCompleted writes the completed flag in a single conditional update.
// It reports false when no row matched — a nonexistent id and another
// user's id are indistinguishable here.
func (s *TodoStore) SetCompleted(id, userID int64, completed bool) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?`,
		completed, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}

// Delete removes the row in a single conditional delete, with the same
// ownership semantics as SetCompleted.
func (s *TodoStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}
