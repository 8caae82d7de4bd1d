package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/database/postgres"
	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
)

const customersTable = "customers"

// CustomerSource yields the customer collection the dashboard analyses. The
// static dataset and the postgres repository both implement it; the analytics
// layer does not care which one is wired in.
type CustomerSource interface {
	ListCustomers() ([]*domain.Customer, error)
	GetCustomerByID(id int64) (*domain.Customer, error)
}

// CustomerRepository is the persistent variant of CustomerSource. The only
// write surface is the weekly trust snapshot upsert: customer records are
// otherwise read-only for this service.
type CustomerRepository interface {
	CustomerSource
	SaveTrustSnapshot(customerID int64, weekKey string, snapshot domain.TrustSnapshot) error
}

type customerRepository struct {
	conn *postgres.Connection
}

func NewCustomerRepository(conn *postgres.Connection) CustomerRepository {
	return &customerRepository{
		conn: conn,
	}
}

const customerColumns = `id, company_name, category, company_size, manager,
	contract_amount, products, trust_index, trust_level, trust_history,
	trust_formation, value_recognition, adoption_decision,
	sales_actions, content_engagements, attendance`

func (r *customerRepository) ListCustomers() ([]*domain.Customer, error) {
	query, args, err := squirrel.
		Select(customerColumns).
		From(customersTable).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building customer list query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) GetCustomerByID(id int64) (*domain.Customer, error) {
	query, args, err := squirrel.
		Select(customerColumns).
		From(customersTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building customer query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customer: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	customer, err := scanCustomer(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning customer: %w", err)
	}
	return customer, nil
}

// SaveTrustSnapshot files the snapshot under the week key inside the JSONB
// history column. Idempotent: re-running a week replaces that week's entry.
func (r *customerRepository) SaveTrustSnapshot(customerID int64, weekKey string, snapshot domain.TrustSnapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("serializing trust snapshot: %w", err)
	}

	query, args, err := squirrel.
		Update(customersTable).
		Set("trust_history", squirrel.Expr(
			"jsonb_set(COALESCE(trust_history, '{}'::jsonb), ARRAY[?], ?::jsonb)",
			weekKey, string(snapshotJSON),
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": customerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building snapshot update: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("saving trust snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer %d not found", customerID)
	}

	return nil
}

func scanCustomer(rows *sql.Rows) (*domain.Customer, error) {
	customer := &domain.Customer{}

	var (
		companySize    sql.NullString
		trustLevel     sql.NullString
		contractAmount sql.NullFloat64
		trustIndex     sql.NullInt64

		productsJSON    []byte
		historyJSON     []byte
		formationJSON   []byte
		recognitionJSON []byte
		decisionJSON    []byte
		actionsJSON     []byte
		engagementsJSON []byte
		attendanceJSON  []byte
	)

	err := rows.Scan(
		&customer.ID,
		&customer.CompanyName,
		&customer.Category,
		&companySize,
		&customer.Manager,
		&contractAmount,
		&productsJSON,
		&trustIndex,
		&trustLevel,
		&historyJSON,
		&formationJSON,
		&recognitionJSON,
		&decisionJSON,
		&actionsJSON,
		&engagementsJSON,
		&attendanceJSON,
	)
	if err != nil {
		return nil, err
	}

	if companySize.Valid {
		size := domain.CompanySize(companySize.String)
		customer.CompanySize = &size
	}
	if trustLevel.Valid {
		level := domain.TrustLevel(trustLevel.String)
		customer.TrustLevel = &level
	}
	if contractAmount.Valid {
		customer.ContractAmount = &contractAmount.Float64
	}
	if trustIndex.Valid {
		index := int(trustIndex.Int64)
		customer.TrustIndex = &index
	}

	for _, column := range []struct {
		raw  []byte
		dest any
	}{
		{productsJSON, &customer.Products},
		{historyJSON, &customer.TrustHistory},
		{formationJSON, &customer.TrustFormation},
		{recognitionJSON, &customer.ValueRecognition},
		{decisionJSON, &customer.AdoptionDecision},
		{actionsJSON, &customer.SalesActions},
		{engagementsJSON, &customer.ContentEngagements},
		{attendanceJSON, &customer.Attendance},
	} {
		if column.raw == nil {
			continue
		}
		if err := json.Unmarshal(column.raw, column.dest); err != nil {
			return nil, fmt.Errorf("deserializing customer column: %w", err)
		}
	}

	return customer, nil
}
