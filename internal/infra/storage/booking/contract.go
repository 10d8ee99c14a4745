package booking

import "github.com/booking4u/booking-service/pkg/dbmetrics"

// DBExecutor *sql.DB, *dbmetrics.DB или транзакция
type DBExecutor = dbmetrics.DBExecutor
