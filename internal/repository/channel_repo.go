package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smart_channels/internal/models"
)

type ChannelSQLite struct {
	db *sql.DB
}

func NewChannelSQLite(db *sql.DB) *ChannelSQLite {
	return &ChannelSQLite{db: db}
}

var _ ChannelRepo = (*ChannelSQLite)(nil)

const channelColumns = `id, user_id, iodevice_id, channel_number, caption, type, func, param1, param2, param3, param4`

const (
	selectChannelSQL       = `SELECT ` + channelColumns + ` FROM channels WHERE id = ?`
	selectUserChannelsSQL  = `SELECT ` + channelColumns + ` FROM channels WHERE user_id = ? ORDER BY iodevice_id, channel_number`
	updateChannelParamsSQL = `UPDATE channels SET param1 = ?, param2 = ?, param3 = ?, param4 = ? WHERE id = ?`
	selectMaxDeviceIDSQL   = `SELECT COALESCE(MAX(iodevice_id), 0) FROM channels`

	insertChannelSQL = `
		INSERT INTO channels (user_id, iodevice_id, channel_number, caption, type, func, param1, param2, param3, param4)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
)

// Create inserts ch and sets its ID.
func (r *ChannelSQLite) Create(ctx context.Context, ch *models.Channel) error {
	res, err := r.db.ExecContext(ctx, insertChannelSQL,
		ch.UserID, ch.IODeviceID, ch.ChannelNumber, ch.Caption, int32(ch.Type), int32(ch.Function),
		ch.Param1, ch.Param2, ch.Param3, ch.Param4)
	if err != nil {
		return fmt.Errorf("insert channel %d/%d: %w", ch.IODeviceID, ch.ChannelNumber, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id for channel: %w", err)
	}
	ch.ID = int(id)
	return nil
}

// NextDeviceID returns an io device id not used by any channel yet.
func (r *ChannelSQLite) NextDeviceID(ctx context.Context) (int, error) {
	var maxID int
	if err := r.db.QueryRowContext(ctx, selectMaxDeviceIDSQL).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("select max device id: %w", err)
	}
	return maxID + 1, nil
}

// Get fetches a channel by id. Returns (nil, nil) if not found.
func (r *ChannelSQLite) Get(ctx context.Context, id int) (*models.Channel, error) {
	ch, err := scanChannel(r.db.QueryRowContext(ctx, selectChannelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select channel %d: %w", id, err)
	}
	return ch, nil
}

// Find is Get under the name the param translator expects.
func (r *ChannelSQLite) Find(ctx context.Context, id int) (*models.Channel, error) {
	return r.Get(ctx, id)
}

func (r *ChannelSQLite) ListByUser(ctx context.Context, userID int) ([]models.Channel, error) {
	rows, err := r.db.QueryContext(ctx, selectUserChannelsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select channels of user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Channel, 0, 16)
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveParams writes the parameter slots of every channel in one transaction.
func (r *ChannelSQLite) SaveParams(ctx context.Context, chs ...*models.Channel) error {
	if len(chs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin params tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ch := range chs {
		res, err := tx.ExecContext(ctx, updateChannelParamsSQL, ch.Param1, ch.Param2, ch.Param3, ch.Param4, ch.ID)
		if err != nil {
			return fmt.Errorf("update params of channel %d: %w", ch.ID, err)
		}
		if err := expectOneRow(res, "channel", ch.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit params tx: %w", err)
	}
	return nil
}

func scanChannel(row rowScanner) (*models.Channel, error) {
	var (
		ch       models.Channel
		typ, fnc int32
	)
	if err := row.Scan(&ch.ID, &ch.UserID, &ch.IODeviceID, &ch.ChannelNumber, &ch.Caption, &typ, &fnc,
		&ch.Param1, &ch.Param2, &ch.Param3, &ch.Param4); err != nil {
		return nil, err
	}
	ch.Type = models.ChannelType(typ)
	ch.Function = models.ChannelFunction(fnc)
	return &ch, nil
}
