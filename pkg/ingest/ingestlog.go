package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

var (
	sqliteOnce sync.Once
	sqliteDB   *sql.DB
)

const defaultHistoryPath = "/var/lib/ilm-analyzer/history.db"

func historyPath() string {
	if p := os.Getenv("ILM_HISTORY_DB"); p != "" {
		return p
	}
	return defaultHistoryPath
}

func initSQLite() {
	sqliteOnce.Do(func() {
		path := historyPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Printf("history init mkdir failed: %v", err)
			return
		}
		dsn := "file:" + path + "?_pragma=busy_timeout=5000"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Printf("history open failed: %v", err)
			return
		}
		db.SetMaxOpenConns(1)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Printf("history ping failed: %v", err)
			_ = db.Close()
			return
		}
		if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS ingests(source TEXT, fields TEXT, advisory TEXT, ts INTEGER); CREATE INDEX IF NOT EXISTS idx_ingests_ts ON ingests(ts);`); err != nil {
			log.Printf("history init schema failed: %v", err)
			_ = db.Close()
			return
		}
		sqliteDB = db
	})
}

// recordIngest appends one history row; errors are diagnostics only and
// never surface to the ingestion caller.
func recordIngest(rec model.IngestRecord) {
	initSQLite()
	if sqliteDB == nil {
		return
	}
	fields, _ := json.Marshal(rec.Fields)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = sqliteDB.ExecContext(ctx, `INSERT INTO ingests(source, fields, advisory, ts) VALUES(?,?,?,?)`,
		rec.Source, string(fields), rec.Advisory, rec.Timestamp.Unix())
}

// ListHistory returns the most recent ingest records, newest first.
func ListHistory(limit int) ([]model.IngestRecord, error) {
	initSQLite()
	if sqliteDB == nil {
		return []model.IngestRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rows, err := sqliteDB.QueryContext(ctx, `SELECT source, fields, advisory, ts FROM ingests ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.IngestRecord{}
	for rows.Next() {
		var rec model.IngestRecord
		var fields string
		var ts int64
		if err := rows.Scan(&rec.Source, &fields, &rec.Advisory, &ts); err != nil {
			continue
		}
		_ = json.Unmarshal([]byte(fields), &rec.Fields)
		rec.Timestamp = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}
