//go:build !js

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SlotStore manages the SQLite database connection for save slots and harvest history.
type SlotStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// MemoryPath opens a private in-memory database.
func Open(dbPath string) (*SlotStore, error) {
	if dbPath != MemoryPath {
		// Expand ~ to home directory
		if dbPath != "" && dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if dbPath == MemoryPath {
		// 每个连接都有自己的内存库，只能用一个连接
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SlotStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// SetClock 替换时间源（测试用）
func (s *SlotStore) SetClock(now func() time.Time) {
	s.now = now
}

// migrate creates the database schema if it doesn't exist.
func (s *SlotStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS slots (
			slot INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			day INTEGER NOT NULL DEFAULT 0,
			season TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			money INTEGER NOT NULL DEFAULT 0,
			payload BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS harvests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			crop TEXT NOT NULL,
			quality TEXT NOT NULL,
			amount INTEGER NOT NULL,
			value INTEGER NOT NULL,
			day INTEGER NOT NULL,
			season TEXT NOT NULL,
			year INTEGER NOT NULL,
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_harvests_crop ON harvests(crop);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SlotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save 把 v 以 msgpack 编码写入槽位，已有内容被覆盖
func (s *SlotStore) Save(slot int, meta SlotMeta, v any) error {
	if slot < 1 {
		return fmt.Errorf("storage: invalid slot %d", slot)
	}
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: cannot encode slot %d: %w", slot, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO slots (slot, name, day, season, year, money, payload, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   name = excluded.name,
		   day = excluded.day,
		   season = excluded.season,
		   year = excluded.year,
		   money = excluded.money,
		   payload = excluded.payload,
		   saved_at = excluded.saved_at`,
		slot, meta.Name, meta.Day, meta.Season, meta.Year, meta.Money, payload, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %d: %w", slot, err)
	}
	return nil
}

// Load 读取槽位并把 payload 解码到 out
func (s *SlotStore) Load(slot int, out any) (SlotInfo, error) {
	var (
		info    SlotInfo
		payload []byte
		savedAt int64
	)
	err := s.db.QueryRow(
		`SELECT slot, name, day, season, year, money, payload, saved_at
		 FROM slots WHERE slot = ?`,
		slot,
	).Scan(&info.Slot, &info.Meta.Name, &info.Meta.Day, &info.Meta.Season, &info.Meta.Year, &info.Meta.Money, &payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SlotInfo{}, fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
	}
	if err != nil {
		return SlotInfo{}, fmt.Errorf("storage: cannot query slot %d: %w", slot, err)
	}

	if err := msgpack.Unmarshal(payload, out); err != nil {
		return SlotInfo{}, fmt.Errorf("storage: cannot decode slot %d: %w", slot, err)
	}
	info.SavedAt = time.UnixMilli(savedAt).UTC()
	info.Size = len(payload)
	return info, nil
}

// Delete 删除槽位
func (s *SlotStore) Delete(slot int) error {
	res, err := s.db.Exec("DELETE FROM slots WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %d: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %d: %w", slot, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
	}
	return nil
}

// List 按槽位号列出所有存档
func (s *SlotStore) List() ([]SlotInfo, error) {
	rows, err := s.db.Query(
		`SELECT slot, name, day, season, year, money, length(payload), saved_at
		 FROM slots
		 ORDER BY slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query slots: %w", err)
	}
	defer rows.Close()

	var infos []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var savedAt int64
		if err := rows.Scan(&info.Slot, &info.Meta.Name, &info.Meta.Day, &info.Meta.Season, &info.Meta.Year, &info.Meta.Money, &info.Size, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return infos, nil
}

// RecordHarvest 追加一条收获记录，At 为零时使用当前时间
// Returns the ID of the inserted record.
func (s *SlotStore) RecordHarvest(r HarvestRecord) (int64, error) {
	if r.At.IsZero() {
		r.At = s.now()
	}
	result, err := s.db.Exec(
		`INSERT INTO harvests (crop, quality, amount, value, day, season, year, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Crop, r.Quality, r.Amount, r.Value, r.Day, r.Season, r.Year, r.At.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record harvest: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentHarvests 返回最近的收获记录（新的在前）
func (s *SlotStore) RecentHarvests(limit int) ([]HarvestRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, crop, quality, amount, value, day, season, year, at
		 FROM harvests
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query harvests: %w", err)
	}
	defer rows.Close()

	var records []HarvestRecord
	for rows.Next() {
		var r HarvestRecord
		var at int64
		if err := rows.Scan(&r.ID, &r.Crop, &r.Quality, &r.Amount, &r.Value, &r.Day, &r.Season, &r.Year, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.At = time.UnixMilli(at).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// HarvestTotals 按作物汇总收获，按总价值降序
func (s *SlotStore) HarvestTotals() ([]CropTotal, error) {
	rows, err := s.db.Query(
		`SELECT crop, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(value), 0)
		 FROM harvests
		 GROUP BY crop
		 ORDER BY SUM(value) DESC, crop`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query harvest totals: %w", err)
	}
	defer rows.Close()

	var totals []CropTotal
	for rows.Next() {
		var t CropTotal
		if err := rows.Scan(&t.Crop, &t.Harvests, &t.Amount, &t.Value); err != nil {
			return nil, fmt.Errorf("storage: cannot scan totals row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return totals, nil
}
