package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type BuildingRepo struct {
	db *sql.DB
}

func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

func (r *BuildingRepo) Insert(b *domain.Building) error {
	_, err := r.db.Exec(
		`INSERT INTO buildings
		(id, name, address, city, bank_account_number, expected_monthly_payment,
		 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		b.ID, b.Name, b.Address, b.City, b.BankAccountNumber,
		formatDecimal(b.ExpectedMonthlyPayment),
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert building: %w", err)
	}
	return nil
}

func (r *BuildingRepo) GetByID(id string) (*domain.Building, error) {
	row := r.db.QueryRow(
		`SELECT id, name, address, city, bank_account_number,
		        expected_monthly_payment, created_at, updated_at
		 FROM buildings WHERE id = ?`, id)
	return scanBuilding(row)
}

func (r *BuildingRepo) List() ([]domain.Building, error) {
	rows, err := r.db.Query(
		`SELECT id, name, address, city, bank_account_number,
		        expected_monthly_payment, created_at, updated_at
		 FROM buildings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query buildings: %w", err)
	}
	defer rows.Close()

	var buildings []domain.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		buildings = append(buildings, *b)
	}
	return buildings, rows.Err()
}

func (r *BuildingRepo) Update(b *domain.Building) error {
	res, err := r.db.Exec(
		`UPDATE buildings SET name = ?, address = ?, city = ?,
		        bank_account_number = ?, expected_monthly_payment = ?, updated_at = ?
		 WHERE id = ?`,
		b.Name, b.Address, b.City, b.BankAccountNumber,
		formatDecimal(b.ExpectedMonthlyPayment),
		time.Now().UTC().Format(time.RFC3339), b.ID,
	)
	if err != nil {
		return fmt.Errorf("update building: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BuildingRepo) InsertApartment(a *domain.Apartment) error {
	_, err := r.db.Exec(
		`INSERT INTO apartments (id, building_id, number, floor, expected_payment)
		 VALUES (?,?,?,?,?)`,
		a.ID, a.BuildingID, a.Number, a.Floor, formatDecimal(a.ExpectedPayment),
	)
	if err != nil {
		return fmt.Errorf("insert apartment: %w", err)
	}
	return nil
}

func (r *BuildingRepo) GetApartment(id string) (*domain.Apartment, error) {
	var a domain.Apartment
	var expected sql.NullString
	err := r.db.QueryRow(
		`SELECT id, building_id, number, floor, expected_payment
		 FROM apartments WHERE id = ?`, id,
	).Scan(&a.ID, &a.BuildingID, &a.Number, &a.Floor, &expected)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get apartment: %w", err)
	}
	a.ExpectedPayment = scanDecimal(expected)
	return &a, nil
}

func (r *BuildingRepo) ListApartments(buildingID string) ([]domain.Apartment, error) {
	rows, err := r.db.Query(
		`SELECT id, building_id, number, floor, expected_payment
		 FROM apartments WHERE building_id = ? ORDER BY number`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query apartments: %w", err)
	}
	defer rows.Close()

	var apartments []domain.Apartment
	for rows.Next() {
		var a domain.Apartment
		var expected sql.NullString
		if err := rows.Scan(&a.ID, &a.BuildingID, &a.Number, &a.Floor, &expected); err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		a.ExpectedPayment = scanDecimal(expected)
		apartments = append(apartments, a)
	}
	return apartments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuilding(row rowScanner) (*domain.Building, error) {
	var b domain.Building
	var account, expected sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.City, &account,
		&expected, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.BankAccountNumber = account.String
	b.ExpectedMonthlyPayment = scanDecimal(expected)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}
