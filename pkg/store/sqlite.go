package store

import (
	"database/sql"
	"strconv"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"

	"github.com/mattn/go-sqlite3"
)

// value is stored as TEXT: sqlite INTEGER is signed 64-bit, which
// cannot hold the full uint64 amount range.
var SETUP_SQL string = `
CREATE TABLE IF NOT EXISTS utxo (
	txn_id TEXT NOT NULL,
	vout INTEGER NOT NULL,
	owner TEXT NOT NULL,
	value TEXT NOT NULL,
	spend_txn_id TEXT,
	PRIMARY KEY (txn_id, vout)
);
CREATE INDEX IF NOT EXISTS utxo_owner_i ON utxo (owner);
`

/****************** SQLiteStore implements giga.Store ********************/
var _ giga.Store = SQLiteStore{}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a giga.Store implementor that uses sqlite
func NewSQLiteStore(fileName string) (SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return SQLiteStore{}, dbErr(err, "opening database")
	}
	// init tables / indexes
	_, err = db.Exec(SETUP_SQL)
	if err != nil {
		db.Close()
		return SQLiteStore{}, dbErr(err, "creating database schema")
	}
	return SQLiteStore{db}, nil
}

// Defer this until shutdown
func (s SQLiteStore) Close() {
	s.db.Close()
}

func (s SQLiteStore) Begin() (giga.StoreTransaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return &SQLiteStoreTransaction{}, dbErr(err, "beginning transaction")
	}
	return &SQLiteStoreTransaction{tx: tx}, nil
}

func (s SQLiteStore) GetUnspentOutput(txID string, vOut uint32) (giga.UnspentOutput, error) {
	row := s.db.QueryRow("SELECT owner, value FROM utxo WHERE txn_id = ? AND vout = ? AND spend_txn_id IS NULL", txID, vOut)
	var utxo giga.UnspentOutput
	var value string
	err := row.Scan(&utxo.Owner, &value)
	if err == sql.ErrNoRows {
		// MUST detect this error to fulfil the API contract.
		return giga.UnspentOutput{}, giga.NewErr(giga.NotFound, "unspent output not found: %s[%d]", txID, vOut)
	}
	if err != nil {
		return giga.UnspentOutput{}, dbErr(err, "GetUnspentOutput: row.Scan")
	}
	utxo.Amount, err = strconv.ParseUint(value, 10, 64)
	if err != nil {
		return giga.UnspentOutput{}, dbErr(err, "GetUnspentOutput: invalid value in utxo database: "+value)
	}
	return utxo, nil
}

func (s SQLiteStore) ListUnspentOutputs() (map[wire.UtxoRef]giga.UnspentOutput, error) {
	rows, err := s.db.Query("SELECT txn_id, vout, owner, value FROM utxo WHERE spend_txn_id IS NULL")
	if err != nil {
		return nil, dbErr(err, "ListUnspentOutputs: querying utxos")
	}
	defer rows.Close()
	result := map[wire.UtxoRef]giga.UnspentOutput{}
	for rows.Next() {
		var ref wire.UtxoRef
		var utxo giga.UnspentOutput
		var value string
		err := rows.Scan(&ref.TxID, &ref.VOut, &utxo.Owner, &value)
		if err != nil {
			return nil, dbErr(err, "ListUnspentOutputs: scanning utxo row")
		}
		utxo.Amount, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, dbErr(err, "ListUnspentOutputs: invalid value in utxo database: "+value)
		}
		result[ref] = utxo
	}
	if err = rows.Err(); err != nil { // docs say this check is required!
		return nil, dbErr(err, "ListUnspentOutputs: querying utxos")
	}
	return result, nil
}

func (s SQLiteStore) PoolBalance() (uint64, error) {
	// sum in Go: value is TEXT in the schema (see SETUP_SQL)
	rows, err := s.db.Query("SELECT value FROM utxo WHERE spend_txn_id IS NULL")
	if err != nil {
		return 0, dbErr(err, "PoolBalance: querying utxos")
	}
	defer rows.Close()
	var total uint64
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return 0, dbErr(err, "PoolBalance: scanning utxo row")
		}
		amount, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, dbErr(err, "PoolBalance: invalid value in utxo database: "+value)
		}
		total += amount
	}
	if err = rows.Err(); err != nil {
		return 0, dbErr(err, "PoolBalance: querying utxos")
	}
	return total, nil
}

/****** SQLiteStoreTransaction implements giga.StoreTransaction ******/
var _ giga.StoreTransaction = &SQLiteStoreTransaction{}

type SQLiteStoreTransaction struct {
	tx       *sql.Tx
	finished bool
}

func (t *SQLiteStoreTransaction) Commit() error {
	err := t.tx.Commit()
	if err != nil {
		return dbErr(err, "committing transaction")
	}
	t.finished = true
	return nil
}

// Rollback is safe to call after Commit (deferred); it does nothing.
func (t *SQLiteStoreTransaction) Rollback() error {
	if t.finished {
		return nil
	}
	return t.tx.Rollback()
}

func (t *SQLiteStoreTransaction) AddUnspentOutput(ref wire.UtxoRef, utxo giga.UnspentOutput) error {
	value := strconv.FormatUint(utxo.Amount, 10)
	_, err := t.tx.Exec("INSERT INTO utxo (txn_id, vout, owner, value, spend_txn_id) VALUES (?, ?, ?, ?, NULL)",
		ref.TxID, ref.VOut, utxo.Owner, value)
	if err != nil {
		if sqErr, ok := err.(sqlite3.Error); ok && sqErr.Code == sqlite3.ErrConstraint {
			return giga.NewErr(giga.AlreadyExists, "unspent output already exists: %s[%d]", ref.TxID, ref.VOut)
		}
		return dbErr(err, "AddUnspentOutput: insert")
	}
	return nil
}

func (t *SQLiteStoreTransaction) MarkSpent(ref wire.UtxoRef, spendTxID string) error {
	res, err := t.tx.Exec("UPDATE utxo SET spend_txn_id = ? WHERE txn_id = ? AND vout = ? AND spend_txn_id IS NULL",
		spendTxID, ref.TxID, ref.VOut)
	if err != nil {
		return dbErr(err, "MarkSpent: update")
	}
	num, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, "MarkSpent: rows affected")
	}
	if num == 0 {
		return giga.NewErr(giga.NotFound, "unspent output not found: %s[%d]", ref.TxID, ref.VOut)
	}
	return nil
}

func dbErr(err error, where string) error {
	if sqErr, ok := err.(sqlite3.Error); ok {
		if sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked {
			// retryable: the caller can Begin again.
			return giga.NewErr(giga.DBConflict, "[store] %s: %v", where, err)
		}
	}
	return giga.NewErr(giga.UnknownError, "[store] %s: %v", where, err)
}
