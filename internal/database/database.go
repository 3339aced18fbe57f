package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const (
	matchesTable = "fodinha_matches"
	seatsTable   = "fodinha_seats"
)

// Service stores finished match results.
type Service struct {
	db     *sql.DB
	m      *sync.Mutex
	driver string
}

// New opens the database and creates the tables if needed.
func New(driver, dsn string) (*Service, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer at a time.
		db.SetMaxOpenConns(1)
	}

	s := &Service{db: db, m: &sync.Mutex{}, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) migrate() error {
	stmts := []string{
		`create table if not exists ` + matchesTable + ` (
			id text not null primary key,
			created_at text not null,
			mode text not null,
			rounds integer not null,
			winner_id text,
			draw integer not null
		)`,
		`create table if not exists ` + seatsTable + ` (
			match_id text not null references ` + matchesTable + `(id),
			position integer not null,
			seat_id text not null,
			name text not null,
			lives integer not null,
			automated integer not null,
			primary key (match_id, position)
		)`,
		`create index if not exists ` + seatsTable + `_name on ` + seatsTable + ` (name)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// Driver reports the driver the service was opened with.
func (s *Service) Driver() string {
	return s.driver
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *Service) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Insert stores a result and its seats in one transaction.
func (s *Service) Insert(ctx context.Context, result MatchResult) error {
	s.m.Lock()
	defer s.m.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind("INSERT INTO "+matchesTable+
		" (id, created_at, mode, rounds, winner_id, draw) VALUES (?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.Mode,
		result.Rounds,
		result.WinnerID,
		boolToInt(result.Draw))
	if err != nil {
		return fmt.Errorf("insert match %s: %w", result.ID, err)
	}

	for _, seat := range result.Seats {
		_, err = tx.ExecContext(ctx, s.rebind("INSERT INTO "+seatsTable+
			" (match_id, position, seat_id, name, lives, automated) VALUES (?, ?, ?, ?, ?, ?)"),
			result.ID,
			seat.Position,
			seat.SeatID,
			seat.Name,
			seat.Lives,
			boolToInt(seat.Automated))
		if err != nil {
			return fmt.Errorf("insert seat %s of match %s: %w", seat.SeatID, result.ID, err)
		}
	}
	return tx.Commit()
}

// GetAll returns every stored result, newest first.
func (s *Service) GetAll(ctx context.Context) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.queryResults(ctx, "", nil)
}

// GetByID returns one result, or sql.ErrNoRows.
func (s *Service) GetByID(ctx context.Context, id string) (MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.queryResults(ctx, " WHERE id = ?", []any{id})
	if err != nil {
		return MatchResult{}, err
	}
	if len(results) == 0 {
		return MatchResult{}, sql.ErrNoRows
	}
	return results[0], nil
}

// GetByPlayer returns the results a seat with the given name took part in,
// or sql.ErrNoRows if there are none.
func (s *Service) GetByPlayer(ctx context.Context, playerName string) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.queryResults(ctx,
		" WHERE id IN (SELECT match_id FROM "+seatsTable+" WHERE name = ?)",
		[]any{playerName})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

// queryResults loads matches matching where, then their seats. Assumes lock is held.
func (s *Service) queryResults(ctx context.Context, where string, args []any) ([]MatchResult, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT id, created_at, mode, rounds, winner_id, draw FROM "+matchesTable+where+" ORDER BY created_at DESC, id"),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []MatchResult{}
	index := map[string]int{}
	for rows.Next() {
		var (
			result MatchResult
			winner sql.NullString
			draw   int
		)
		if err := rows.Scan(&result.ID, &result.CreatedAt, &result.Mode, &result.Rounds, &winner, &draw); err != nil {
			return nil, err
		}
		result.WinnerID = winner.String
		result.Draw = draw != 0
		result.Seats = []SeatResult{}
		index[result.ID] = len(results)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(results) == 0 {
		return results, nil
	}

	seatRows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT match_id, position, seat_id, name, lives, automated FROM "+seatsTable+
			" WHERE match_id IN (SELECT id FROM "+matchesTable+where+") ORDER BY match_id, position"),
		args...)
	if err != nil {
		return nil, err
	}
	defer seatRows.Close()

	for seatRows.Next() {
		var (
			matchID   string
			seat      SeatResult
			automated int
		)
		if err := seatRows.Scan(&matchID, &seat.Position, &seat.SeatID, &seat.Name, &seat.Lives, &automated); err != nil {
			return nil, err
		}
		seat.Automated = automated != 0
		if i, ok := index[matchID]; ok {
			results[i].Seats = append(results[i].Seats, seat)
		}
	}
	return results, seatRows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
