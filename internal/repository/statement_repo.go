package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type StatementRepo struct {
	db *sql.DB
}

func NewStatementRepo(db *sql.DB) *StatementRepo {
	return &StatementRepo{db: db}
}

// CreateWithTransactions persists a statement and all of its transactions in
// one database transaction: either everything commits or nothing does.
func (r *StatementRepo) CreateWithTransactions(stmt *domain.BankStatement, txns []domain.Transaction) error {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.Exec(
		`INSERT INTO bank_statements
		(id, building_id, upload_date, period_month, period_year, original_filename)
		VALUES (?,?,?,?,?,?)`,
		stmt.ID, stmt.BuildingID, stmt.UploadDate.Format(time.RFC3339),
		stmt.PeriodMonth, stmt.PeriodYear, stmt.OriginalFilename,
	)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}

	insert, err := sqlTx.Prepare(
		`INSERT INTO transactions
		(id, statement_id, activity_date, reference_number, description,
		 credit_amount, debit_amount, balance, transaction_type,
		 matched_tenant_id, match_confidence, match_method, is_confirmed, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer insert.Close()

	for i := range txns {
		txn := &txns[i]
		_, err := insert.Exec(
			txn.ID, txn.StatementID, txn.ActivityDate.Format(time.RFC3339),
			txn.ReferenceNumber, txn.Description,
			formatDecimal(txn.CreditAmount), formatDecimal(txn.DebitAmount),
			formatDecimal(txn.Balance), string(txn.Type),
			nullString(txn.MatchedTenantID), nullFloat(txn.MatchConfidence),
			nullString(string(txn.MatchMethod)), txn.IsConfirmed,
			txn.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *StatementRepo) GetStatement(id string) (*domain.BankStatement, error) {
	var s domain.BankStatement
	var uploadDate string
	err := r.db.QueryRow(
		`SELECT id, building_id, upload_date, period_month, period_year, original_filename
		 FROM bank_statements WHERE id = ?`, id,
	).Scan(&s.ID, &s.BuildingID, &uploadDate, &s.PeriodMonth, &s.PeriodYear, &s.OriginalFilename)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get statement: %w", err)
	}
	s.UploadDate, _ = time.Parse(time.RFC3339, uploadDate)
	return &s, nil
}

// StatementListing pairs a statement with its transaction count.
type StatementListing struct {
	Statement        domain.BankStatement
	TransactionCount int
}

func (r *StatementRepo) ListByBuilding(buildingID string) ([]StatementListing, error) {
	rows, err := r.db.Query(
		`SELECT s.id, s.building_id, s.upload_date, s.period_month, s.period_year,
		        s.original_filename, COUNT(t.id)
		 FROM bank_statements s
		 LEFT JOIN transactions t ON t.statement_id = s.id
		 WHERE s.building_id = ?
		 GROUP BY s.id
		 ORDER BY s.period_year DESC, s.period_month DESC`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var listings []StatementListing
	for rows.Next() {
		var l StatementListing
		var uploadDate string
		err := rows.Scan(&l.Statement.ID, &l.Statement.BuildingID, &uploadDate,
			&l.Statement.PeriodMonth, &l.Statement.PeriodYear,
			&l.Statement.OriginalFilename, &l.TransactionCount)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		l.Statement.UploadDate, _ = time.Parse(time.RFC3339, uploadDate)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// LatestPeriod returns the most recent statement period for a building.
func (r *StatementRepo) LatestPeriod(buildingID string) (month, year int, err error) {
	err = r.db.QueryRow(
		`SELECT period_month, period_year FROM bank_statements
		 WHERE building_id = ?
		 ORDER BY period_year DESC, period_month DESC LIMIT 1`, buildingID,
	).Scan(&month, &year)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("latest period: %w", err)
	}
	return month, year, nil
}

// TransactionFilter narrows ListTransactions. Matched/Unmatched are
// inclusive flags: both true (the default via AllTransactions) lists all.
type TransactionFilter struct {
	IncludeMatched   bool
	IncludeUnmatched bool
}

func AllTransactions() TransactionFilter {
	return TransactionFilter{IncludeMatched: true, IncludeUnmatched: true}
}

func (r *StatementRepo) ListTransactions(statementID string, f TransactionFilter) ([]domain.Transaction, error) {
	query := selectTransaction + ` WHERE statement_id = ?`
	if !f.IncludeMatched {
		query += ` AND matched_tenant_id IS NULL`
	}
	if !f.IncludeUnmatched {
		query += ` AND matched_tenant_id IS NOT NULL`
	}
	query += ` ORDER BY activity_date`

	rows, err := r.db.Query(query, statementID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

func (r *StatementRepo) GetTransaction(id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(selectTransaction+` WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// UpdateMatch sets a transaction's matched tenant, confidence and method.
func (r *StatementRepo) UpdateMatch(txnID, tenantID string, confidence float64, method domain.MatchMethod, confirmed bool) error {
	res, err := r.db.Exec(
		`UPDATE transactions
		 SET matched_tenant_id = ?, match_confidence = ?, match_method = ?, is_confirmed = ?
		 WHERE id = ?`,
		tenantID, confidence, string(method), confirmed, txnID,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PaymentsForPeriod returns the payment transactions of all statements of a
// building for one period. The reconciler aggregates these.
func (r *StatementRepo) PaymentsForPeriod(buildingID string, month, year int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(
		selectTransactionQualified+`
		 FROM transactions t
		 JOIN bank_statements s ON s.id = t.statement_id
		 WHERE s.building_id = ? AND s.period_month = ? AND s.period_year = ?
		   AND t.transaction_type = ?
		 ORDER BY t.activity_date`,
		buildingID, month, year, string(domain.TypePayment))
	if err != nil {
		return nil, fmt.Errorf("query period payments: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

// TenantPayment is one payment with its statement's period attached.
type TenantPayment struct {
	Transaction domain.Transaction
	PeriodMonth int
	PeriodYear  int
}

func (r *StatementRepo) TenantPaymentHistory(tenantID string) ([]TenantPayment, error) {
	rows, err := r.db.Query(
		selectTransactionQualified+`, s.period_month, s.period_year
		 FROM transactions t
		 JOIN bank_statements s ON s.id = t.statement_id
		 WHERE t.matched_tenant_id = ? AND t.transaction_type = ?
		 ORDER BY s.period_year DESC, s.period_month DESC`,
		tenantID, string(domain.TypePayment))
	if err != nil {
		return nil, fmt.Errorf("query tenant payments: %w", err)
	}
	defer rows.Close()

	var payments []TenantPayment
	for rows.Next() {
		var p TenantPayment
		var refNum, credit, debit, balance, tenant, method sql.NullString
		var confidence sql.NullFloat64
		var activityDate, createdAt, txnType string

		err := rows.Scan(&p.Transaction.ID, &p.Transaction.StatementID,
			&activityDate, &refNum, &p.Transaction.Description,
			&credit, &debit, &balance, &txnType, &tenant, &confidence,
			&method, &p.Transaction.IsConfirmed, &createdAt,
			&p.PeriodMonth, &p.PeriodYear)
		if err != nil {
			return nil, fmt.Errorf("scan tenant payment: %w", err)
		}

		fillTransaction(&p.Transaction, activityDate, refNum, credit, debit,
			balance, txnType, tenant, confidence, method, createdAt)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// --- helpers ---

const selectTransaction = `SELECT id, statement_id, activity_date,
	reference_number, description, credit_amount, debit_amount, balance,
	transaction_type, matched_tenant_id, match_confidence, match_method,
	is_confirmed, created_at FROM transactions`

const selectTransactionQualified = `SELECT t.id, t.statement_id, t.activity_date,
	t.reference_number, t.description, t.credit_amount, t.debit_amount, t.balance,
	t.transaction_type, t.matched_tenant_id, t.match_confidence, t.match_method,
	t.is_confirmed, t.created_at`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var txn domain.Transaction
	var refNum, credit, debit, balance, tenant, method sql.NullString
	var confidence sql.NullFloat64
	var activityDate, createdAt, txnType string

	err := row.Scan(&txn.ID, &txn.StatementID, &activityDate, &refNum,
		&txn.Description, &credit, &debit, &balance, &txnType, &tenant,
		&confidence, &method, &txn.IsConfirmed, &createdAt)
	if err != nil {
		return nil, err
	}

	fillTransaction(&txn, activityDate, refNum, credit, debit, balance,
		txnType, tenant, confidence, method, createdAt)
	return &txn, nil
}

func fillTransaction(txn *domain.Transaction, activityDate string,
	refNum, credit, debit, balance sql.NullString, txnType string,
	tenant sql.NullString, confidence sql.NullFloat64, method sql.NullString,
	createdAt string) {

	txn.ActivityDate, _ = time.Parse(time.RFC3339, activityDate)
	txn.ReferenceNumber = refNum.String
	txn.CreditAmount = scanDecimal(credit)
	txn.DebitAmount = scanDecimal(debit)
	txn.Balance = scanDecimal(balance)
	txn.Type = domain.TransactionType(txnType)
	txn.MatchedTenantID = tenant.String
	if confidence.Valid {
		txn.MatchConfidence = confidence.Float64
	}
	txn.MatchMethod = domain.MatchMethod(method.String)
	txn.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
