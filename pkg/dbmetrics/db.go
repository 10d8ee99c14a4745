package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

const defaultStatsInterval = 15 * time.Second

// Recorder получатель метрик запросов
type Recorder interface {
	ObserveDBQuery(operation string, err error, duration time.Duration)
	ObservePoolStats(open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, которая пишет метрики каждого запроса
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap оборачивает *sql.DB. recorder может быть nil - тогда метрики не пишутся.
func Wrap(db *sql.DB, recorder Recorder) *DB {
	return &DB{db: db, recorder: recorder}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула
// соединений до закрытия stop
func WrapWithDefault(db *sql.DB, recorder Recorder, stop <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder)
	go wrapped.collectPoolStats(defaultStatsInterval, stop)
	return wrapped
}

// ExecContext выполняет запрос без возврата строк
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", err, start)
	return res, err
}

// QueryContext выполняет запрос, возвращающий строки
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", err, start)
	return rows, err
}

// QueryRowContext выполняет запрос, возвращающий не более одной строки
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", row.Err(), start)
	return row
}

// BeginTx начинает транзакцию, запросы внутри которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &metricsTx{tx: tx, recorder: d.recorder}, nil
}

// PingContext проверяет соединение с БД
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Unwrap возвращает исходный *sql.DB
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) observe(operation string, err error, start time.Time) {
	if d.recorder == nil {
		return
	}
	d.recorder.ObserveDBQuery(operation, err, time.Since(start))
}

func (d *DB) collectPoolStats(interval time.Duration, stop <-chan struct{}) {
	if d.recorder == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.recorder.ObservePoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount)
		}
	}
}

type metricsTx struct {
	tx       *sql.Tx
	recorder Recorder
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe("tx_exec", err, start)
	return res, err
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe("tx_query", err, start)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe("tx_query_row", row.Err(), start)
	return row
}

func (t *metricsTx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.observe("commit", err, start)
	return err
}

func (t *metricsTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *metricsTx) observe(operation string, err error, start time.Time) {
	if t.recorder == nil {
		return
	}
	t.recorder.ObserveDBQuery(operation, err, time.Since(start))
}
