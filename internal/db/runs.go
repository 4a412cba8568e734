package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded perception session.
type Run struct {
	ID         string    `json:"run_id"`
	Side       string    `json:"side"`
	Unum       int       `json:"unum"`
	Goalie     bool      `json:"goalie"`
	ConfigJSON string    `json:"config_json,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// CycleSummary is the belief snapshot stored for one cycle. Positions are
// only meaningful while the paired age is below the consumer's threshold.
// Reach fields are nil when no player of that team was ranked.
type CycleSummary struct {
	Cycle          int       `json:"cycle"`
	SelfX          float64   `json:"self_x"`
	SelfY          float64   `json:"self_y"`
	SelfPosAge     int       `json:"self_pos_age"`
	SelfFace       float64   `json:"self_face"`
	SelfFaceAge    int       `json:"self_face_age"`
	BallX          float64   `json:"ball_x"`
	BallY          float64   `json:"ball_y"`
	BallPosAge     int       `json:"ball_pos_age"`
	BallVelAge     int       `json:"ball_vel_age"`
	SelfReach      int       `json:"self_reach"`
	TeammateReach  *int      `json:"teammate_reach,omitempty"`
	OpponentReach  *int      `json:"opponent_reach,omitempty"`
	OffsideX       float64   `json:"offside_x"`
	OffsideAge     int       `json:"offside_age"`
	DefenseX       float64   `json:"defense_x"`
	DefenseAge     int       `json:"defense_age"`
	Teammates      int       `json:"teammates"`
	Opponents      int       `json:"opponents"`
	UnknownPlayers int       `json:"unknown_players"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// StartRun inserts a new run and returns it with a fresh ID.
func (db *DB) StartRun(side string, unum int, goalie bool, configJSON string) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		Side:       side,
		Unum:       unum,
		Goalie:     goalie,
		ConfigJSON: configJSON,
		StartedAt:  db.clock.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO runs (run_id, side, unum, goalie, config_json, started_unix_nanos)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Side, run.Unum, run.Goalie, run.ConfigJSON, run.StartedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// GetRun loads a run by ID.
func (db *DB) GetRun(id string) (*Run, error) {
	var (
		run     Run
		cfg     sql.NullString
		started int64
	)
	err := db.QueryRow(
		`SELECT run_id, side, unum, goalie, config_json, started_unix_nanos
		FROM runs WHERE run_id = ?`, id,
	).Scan(&run.ID, &run.Side, &run.Unum, &run.Goalie, &cfg, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.ConfigJSON = cfg.String
	run.StartedAt = time.Unix(0, started).UTC()
	return &run, nil
}

// RecordCycle upserts the summary of one cycle. A repeated cycle replaces
// the earlier row.
func (db *DB) RecordCycle(runID string, c CycleSummary) error {
	if c.RecordedAt.IsZero() {
		c.RecordedAt = db.clock.Now().UTC()
	}
	_, err := db.Exec(
		`INSERT OR REPLACE INTO cycles (
			run_id, cycle, self_x, self_y, self_pos_age, self_face, self_face_age,
			ball_x, ball_y, ball_pos_age, ball_vel_age,
			self_reach, teammate_reach, opponent_reach,
			offside_x, offside_age, defense_x, defense_age,
			teammates, opponents, unknown_players, recorded_unix_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, c.Cycle, c.SelfX, c.SelfY, c.SelfPosAge, c.SelfFace, c.SelfFaceAge,
		c.BallX, c.BallY, c.BallPosAge, c.BallVelAge,
		c.SelfReach, nullInt(c.TeammateReach), nullInt(c.OpponentReach),
		c.OffsideX, c.OffsideAge, c.DefenseX, c.DefenseAge,
		c.Teammates, c.Opponents, c.UnknownPlayers, c.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record cycle %d: %w", c.Cycle, err)
	}
	return nil
}

// ListCycles returns the stored summaries of a run in cycle order.
func (db *DB) ListCycles(runID string) ([]CycleSummary, error) {
	rows, err := db.Query(
		`SELECT cycle, self_x, self_y, self_pos_age, self_face, self_face_age,
			ball_x, ball_y, ball_pos_age, ball_vel_age,
			self_reach, teammate_reach, opponent_reach,
			offside_x, offside_age, defense_x, defense_age,
			teammates, opponents, unknown_players, recorded_unix_nanos
		FROM cycles WHERE run_id = ? ORDER BY cycle`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleSummary
	for rows.Next() {
		var (
			c        CycleSummary
			mate     sql.NullInt64
			opp      sql.NullInt64
			recorded int64
		)
		if err := rows.Scan(
			&c.Cycle, &c.SelfX, &c.SelfY, &c.SelfPosAge, &c.SelfFace, &c.SelfFaceAge,
			&c.BallX, &c.BallY, &c.BallPosAge, &c.BallVelAge,
			&c.SelfReach, &mate, &opp,
			&c.OffsideX, &c.OffsideAge, &c.DefenseX, &c.DefenseAge,
			&c.Teammates, &c.Opponents, &c.UnknownPlayers, &recorded,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		c.TeammateReach = intPtr(mate)
		c.OpponentReach = intPtr(opp)
		c.RecordedAt = time.Unix(0, recorded).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
