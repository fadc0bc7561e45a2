// Package statement parses Israeli bank-statement files into transactions.
// Input rows are column-labeled cells with Hebrew headers; output is the
// filtered list of candidate payment transactions plus statement metadata.
package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
)

// Row is one statement row keyed by column label as it appears in the file.
// Cell values may be strings, numbers, time.Time or nil.
type Row map[string]any

// ParsedTransaction is one admitted statement row, before persistence.
type ParsedTransaction struct {
	ActivityDate time.Time
	Reference    string
	Description  string
	// PayerName is the counterparty extracted from the description;
	// empty when it could not be confidently extracted.
	PayerName    string
	CreditAmount *decimal.Decimal
	DebitAmount  *decimal.Decimal
	Balance      *decimal.Decimal
	Type         domain.TransactionType
}

// Metadata describes the statement as a whole. PeriodMonth/PeriodYear are
// zero when no row carried a parseable date.
type Metadata struct {
	Filename    string
	RowCount    int
	PeriodMonth int
	PeriodYear  int
}

// Config holds the localization tables the parser matches against. The
// defaults cover the Israeli bank formats we have seen; override to tune
// without touching the parsing logic.
type Config struct {
	// ColumnLabels maps localized header labels to canonical field names.
	ColumnLabels map[string]string
	// BankNames are substrings stripped from descriptions when no
	// separator is found.
	BankNames []string
	// FeeKeywords classify a row as a fee/expense.
	FeeKeywords []string
	// SummaryMarkers identify total/summary lines excluded from output.
	SummaryMarkers []string
}

// Canonical field names used in ColumnLabels values.
const (
	fieldActivityDate = "activity_date"
	fieldReference    = "reference"
	fieldDescription  = "description"
	fieldCredit       = "credit"
	fieldDebit        = "debit"
	fieldBalance      = "balance"
)

// DefaultConfig returns the built-in Hebrew localization tables.
func DefaultConfig() Config {
	return Config{
		ColumnLabels: map[string]string{
			"תאריך פעילות": fieldActivityDate,
			"אסמכתא":       fieldReference,
			"תאור פעולה":   fieldDescription,
			"זכות":         fieldCredit,
			"חובה":         fieldDebit,
			"יתרה":         fieldBalance,
		},
		BankNames: []string{
			"הפועלים", "לאומי", "דיסקונט", "מזרחי", "בינלאומי",
			"פועלים", "איגוד", "מרכנתיל", "יהב", "אוצר החייל",
			"בנק", "Bank",
		},
		FeeKeywords: []string{
			"מע\"מ", "עמלה", "עמלת", "דמי ניהול", "ניהול חשבון",
			"קנס", "אגרה", "בנקאות", "סה\"כ פעולות", "סה\"כ",
		},
		SummaryMarkers: []string{"סה\"כ", "סיכום", "סה״כ"},
	}
}

// Parser converts labeled statement rows into transactions.
type Parser struct {
	cfg Config
}

// NewParser creates a parser. A zero Config falls back to DefaultConfig.
func NewParser(cfg Config) *Parser {
	if cfg.ColumnLabels == nil {
		cfg = DefaultConfig()
	}
	return &Parser{cfg: cfg}
}

// Supported activity-date layouts: DD/MM/YY and DD/MM/YYYY.
var dateLayouts = []string{"02/01/06", "02/01/2006"}

var payerSeparator = regexp.MustCompile(`\s*-\s*`)

// Parse converts rows into transactions and statement metadata. Malformed
// rows are skipped, never fatal: a row is dropped when its description is
// empty or its date cannot be parsed, and unparseable amounts become absent
// values. Fee, transfer and summary rows are excluded from the result.
func (p *Parser) Parse(rows []Row, filename string) ([]ParsedTransaction, Metadata) {
	meta := Metadata{Filename: filename, RowCount: len(rows)}

	var txns []ParsedTransaction
	var latest time.Time

	for _, raw := range rows {
		row := p.canonicalize(raw)

		// The period derives from every row with a valid date, including
		// rows dropped below.
		activityDate, ok := parseDate(row[fieldActivityDate])
		if ok && activityDate.After(latest) {
			latest = activityDate
		}

		description := strings.TrimSpace(asString(row[fieldDescription]))
		if description == "" || !ok {
			continue
		}

		credit := parseAmount(row[fieldCredit])
		debit := parseAmount(row[fieldDebit])

		txn := ParsedTransaction{
			ActivityDate: activityDate,
			Reference:    strings.TrimSpace(asString(row[fieldReference])),
			Description:  description,
			PayerName:    p.ExtractPayerName(description),
			CreditAmount: credit,
			DebitAmount:  debit,
			Balance:      parseAmount(row[fieldBalance]),
			Type:         p.classify(description, credit, debit),
		}
		txns = append(txns, txn)
	}

	if !latest.IsZero() {
		meta.PeriodMonth = int(latest.Month())
		meta.PeriodYear = latest.Year()
	}

	return p.filter(txns), meta
}

// canonicalize renames row keys through the column-label table, tolerating
// padded headers. Unknown columns are dropped.
func (p *Parser) canonicalize(raw Row) Row {
	row := make(Row, len(raw))
	for label, value := range raw {
		if field, ok := p.cfg.ColumnLabels[strings.TrimSpace(label)]; ok {
			row[field] = value
		}
	}
	return row
}

// ExtractPayerName pulls the counterparty name out of a description shaped
// like "<bank/channel> - <payer>". When no separator exists, it falls back
// to stripping known bank names; if that changes nothing the name is
// considered unextractable and "" is returned.
func (p *Parser) ExtractPayerName(description string) string {
	description = strings.Join(strings.Fields(description), " ")

	if strings.Contains(description, "-") {
		parts := payerSeparator.Split(description, 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	cleaned := description
	for _, bank := range p.cfg.BankNames {
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, bank, ""))
	}
	if cleaned == description {
		return ""
	}
	return cleaned
}

func (p *Parser) classify(description string, credit, debit *decimal.Decimal) domain.TransactionType {
	for _, keyword := range p.cfg.FeeKeywords {
		if strings.Contains(description, keyword) {
			return domain.TypeFee
		}
	}
	if debit != nil && debit.IsPositive() {
		return domain.TypeTransfer
	}
	if credit != nil && credit.IsPositive() {
		return domain.TypePayment
	}
	return domain.TypeOther
}

// filter drops fees, summary lines and outgoing transfers; only payment and
// other rows feed the matching stage.
func (p *Parser) filter(txns []ParsedTransaction) []ParsedTransaction {
	filtered := make([]ParsedTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Type == domain.TypeFee || txn.Type == domain.TypeTransfer {
			continue
		}
		if p.isSummaryLine(txn.Description) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered
}

func (p *Parser) isSummaryLine(description string) bool {
	for _, marker := range p.cfg.SummaryMarkers {
		if strings.Contains(description, marker) {
			return true
		}
	}
	return false
}
