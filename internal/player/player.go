package player

import (
	"database/sql"
	"errors"
	"fmt"

	"blackjack-coach/internal/game"
)

// Player is the running scoreboard for one seat.
type Player struct {
	SeatID     int64
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Games      int
	Net        int
}

type Stats struct {
	SeatID  int64   `json:"seat_id"`
	Net     int     `json:"net"`
	Wins    int     `json:"wins"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

type Repository interface {
	GetOrCreate(seatID int64) (*Player, error)
	Record(seatID int64, result game.Result) (*Player, error)
	GetTopByNet(limit int) ([]Stats, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(seatID int64) (*Player, error) {
	p := &Player{SeatID: seatID}

	err := r.db.QueryRow(`
		SELECT wins, losses, pushes, blackjacks, doubles, games, net
		FROM seats WHERE seat_id = ?
	`, seatID).Scan(
		&p.Wins, &p.Losses, &p.Pushes,
		&p.Blackjacks, &p.Doubles, &p.Games, &p.Net,
	)

	if errors.Is(err, sql.ErrNoRows) {
		if _, err = r.db.Exec(`INSERT INTO seats (seat_id) VALUES (?)`, seatID); err != nil {
			return nil, fmt.Errorf("failed to create seat: %w", err)
		}
		return p, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	return p, nil
}

// Record appends the round and folds it into the seat totals.
func (r *SQLiteRepository) Record(seatID int64, result game.Result) (*Player, error) {
	p, err := r.GetOrCreate(seatID)
	if err != nil {
		return nil, err
	}
	p.Apply(result)

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rounds (seat_id, outcome, bet, doubled, payout, net, player_total, dealer_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, seatID, result.Outcome.String(), result.Bet, result.Doubled,
		result.Payout, result.Net, result.PlayerTotal, result.DealerTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to record round: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE seats SET
			wins = ?, losses = ?, pushes = ?, blackjacks = ?,
			doubles = ?, games = ?, net = ?, updated_at = CURRENT_TIMESTAMP
		WHERE seat_id = ?
	`, p.Wins, p.Losses, p.Pushes, p.Blackjacks,
		p.Doubles, p.Games, p.Net, p.SeatID)
	if err != nil {
		return nil, fmt.Errorf("failed to save seat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetTopByNet(limit int) ([]Stats, error) {
	rows, err := r.db.Query(`
		SELECT seat_id, net, wins, games
		FROM seats
		WHERE games > 0
		ORDER BY net DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.SeatID, &s.Net, &s.Wins, &s.Games); err != nil {
			return nil, err
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (p *Player) Apply(result game.Result) {
	p.Games++
	p.Net += result.Net
	if result.Doubled {
		p.Doubles++
	}

	switch result.Outcome {
	case game.OutcomeBlackjack:
		p.Blackjacks++
		p.Wins++
	case game.OutcomeWin:
		p.Wins++
	case game.OutcomeLose:
		p.Losses++
	case game.OutcomePush:
		p.Pushes++
	}
}

func (p *Player) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games) * 100
}
